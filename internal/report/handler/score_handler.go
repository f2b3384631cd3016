package handler

import (
	"github.com/bitfantasy/tms/internal/report/service"
	"github.com/gin-gonic/gin"
)

// ScoreHandler 绩效评分处理器
type ScoreHandler struct {
	svc *service.ScoreService
}

// NewScoreHandler 创建绩效评分处理器
func NewScoreHandler(svc *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{svc: svc}
}

// UserScore 投标专员评分
// GET /api/v1/reports/scores/users/:id?from=&to=
func (h *ScoreHandler) UserScore(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	card, err := h.svc.GetUserScore(c.Request.Context(), c.Param("id"), window)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, card)
}

// TeamScore 团队评分
// GET /api/v1/reports/scores/teams/:id?from=&to=
func (h *ScoreHandler) TeamScore(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	card, err := h.svc.GetTeamScore(c.Request.Context(), c.Param("id"), window)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, card)
}

// OEMScore 厂商协同评分
// GET /api/v1/reports/scores/oem/:id?from=&to=
func (h *ScoreHandler) OEMScore(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}

	card, err := h.svc.GetOEMScore(c.Request.Context(), c.Param("id"), window)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, card)
}
