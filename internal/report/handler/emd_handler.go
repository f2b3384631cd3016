package handler

import (
	"github.com/bitfantasy/tms/internal/report/service"
	"github.com/gin-gonic/gin"
)

// EmdHandler 保证金报表处理器
type EmdHandler struct {
	svc *service.EmdService
}

// NewEmdHandler 创建保证金报表处理器
func NewEmdHandler(svc *service.EmdService) *EmdHandler {
	return &EmdHandler{svc: svc}
}

// Balance 保证金余额表
// GET /api/v1/reports/emd/balance?from=&to=&user_id=|team_id=
func (h *EmdHandler) Balance(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}
	userID, teamID, ok := resolveScope(c)
	if !ok {
		return
	}

	var (
		balance *service.EmdBalance
		err     error
	)
	if userID != "" {
		balance, err = h.svc.GetUserBalance(c.Request.Context(), userID, window)
	} else {
		balance, err = h.svc.GetTeamBalance(c.Request.Context(), teamID, window)
	}
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, balance)
}

// CashFlow 保证金资金流量表
// GET /api/v1/reports/emd/cashflow?from=&to=&user_id=|team_id=&granularity=
// 带granularity时按周/月分桶返回趋势（仅团队口径）
func (h *EmdHandler) CashFlow(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}
	userID, teamID, ok := resolveScope(c)
	if !ok {
		return
	}

	granularity := c.Query("granularity")
	if granularity != "" {
		if granularity != service.GranularityWeek && granularity != service.GranularityMonth {
			BadRequest(c, "granularity must be week or month")
			return
		}
		if teamID == "" {
			BadRequest(c, "granularity requires team_id")
			return
		}
		trend, err := h.svc.GetTeamCashFlowTrend(c.Request.Context(), teamID, window, granularity)
		if err != nil {
			InternalError(c, err.Error())
			return
		}
		Success(c, trend)
		return
	}

	var (
		flow *service.EmdCashFlow
		err  error
	)
	if userID != "" {
		flow, err = h.svc.GetUserCashFlow(c.Request.Context(), userID, window)
	} else {
		flow, err = h.svc.GetTeamCashFlow(c.Request.Context(), teamID, window)
	}
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, flow)
}
