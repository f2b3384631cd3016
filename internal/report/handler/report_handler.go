package handler

import (
	"net/url"

	"github.com/bitfantasy/tms/internal/report/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ReportHandler 阶段报表处理器
type ReportHandler struct {
	matrix  *service.MatrixService
	backlog *service.BacklogService
	export  *service.ExportService
}

// NewReportHandler 创建报表处理器
func NewReportHandler(matrix *service.MatrixService, backlog *service.BacklogService, export *service.ExportService) *ReportHandler {
	return &ReportHandler{matrix: matrix, backlog: backlog, export: export}
}

// StageMatrix 阶段绩效矩阵
// GET /api/v1/reports/stage-matrix?from=&to=&user_id=|team_id=
func (h *ReportHandler) StageMatrix(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}
	userID, teamID, ok := resolveScope(c)
	if !ok {
		return
	}

	var (
		matrix *service.StageMatrix
		err    error
	)
	if userID != "" {
		matrix, err = h.matrix.GetUserMatrix(c.Request.Context(), userID, window)
	} else {
		matrix, err = h.matrix.GetTeamMatrix(c.Request.Context(), teamID, window)
	}
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, matrix)
}

// Backlog 积压台账
// GET /api/v1/reports/backlog?from=&to=&user_id=|team_id=
func (h *ReportHandler) Backlog(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}
	userID, teamID, ok := resolveScope(c)
	if !ok {
		return
	}

	var (
		ledger *service.BacklogLedger
		err    error
	)
	if userID != "" {
		ledger, err = h.backlog.GetUserBacklog(c.Request.Context(), userID, window)
	} else {
		ledger, err = h.backlog.GetTeamBacklog(c.Request.Context(), teamID, window)
	}
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, ledger)
}

// Export 导出报表Excel
// GET /api/v1/reports/export?report=stage-matrix|backlog&from=&to=&team_id=
func (h *ReportHandler) Export(c *gin.Context) {
	window, ok := parseWindow(c)
	if !ok {
		return
	}
	teamID := c.Query("team_id")
	if teamID == "" {
		BadRequest(c, "team_id is required")
		return
	}

	report := c.DefaultQuery("report", "stage-matrix")

	var (
		f        *excelize.File
		filename string
		err      error
	)
	switch report {
	case "stage-matrix":
		f, filename, err = h.export.ExportTeamMatrix(c.Request.Context(), teamID, window)
	case "backlog":
		f, filename, err = h.export.ExportTeamBacklog(c.Request.Context(), teamID, window)
	default:
		BadRequest(c, "unknown report: "+report)
		return
	}
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
