package handler

import (
	"github.com/bitfantasy/tms/internal/report/service"
	"github.com/gin-gonic/gin"
)

// Handlers 报表处理器集合
type Handlers struct {
	Report *ReportHandler
	Emd    *EmdHandler
	Score  *ScoreHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Report: NewReportHandler(svc.Matrix, svc.Backlog, svc.Export),
		Emd:    NewEmdHandler(svc.Emd),
		Score:  NewScoreHandler(svc.Score),
	}
}

// Response 通用响应结构（与标书模块保持一致）
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// parseWindow 解析报表时间窗
// from/to 为必填的 UTC 日期（2006-01-02），窗口按整天对齐
func parseWindow(c *gin.Context) (service.Window, bool) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		BadRequest(c, "from and to are required (format: 2006-01-02)")
		return service.Window{}, false
	}

	window, err := service.ParseWindow(from, to)
	if err != nil {
		BadRequest(c, err.Error())
		return service.Window{}, false
	}
	return window, true
}

// resolveScope 解析报表查询范围
// user_id 与 team_id 二选一
func resolveScope(c *gin.Context) (userID, teamID string, ok bool) {
	userID = c.Query("user_id")
	teamID = c.Query("team_id")
	if userID == "" && teamID == "" {
		BadRequest(c, "user_id or team_id is required")
		return "", "", false
	}
	if userID != "" && teamID != "" {
		BadRequest(c, "user_id and team_id are mutually exclusive")
		return "", "", false
	}
	return userID, teamID, true
}
