package handler

import (
	"errors"
	"math"
	"time"

	"github.com/bitfantasy/tms/internal/tender/repository"
	"github.com/bitfantasy/tms/internal/tender/service"
	"github.com/gin-gonic/gin"
)

// TenderHandler 标书处理器
type TenderHandler struct {
	svc *service.TenderService
}

// NewTenderHandler 创建标书处理器
func NewTenderHandler(svc *service.TenderService) *TenderHandler {
	return &TenderHandler{svc: svc}
}

// List 标书列表
// GET /api/v1/tenders
func (h *TenderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]string{
		"owner_id":    c.Query("owner_id"),
		"team_id":     c.Query("team_id"),
		"status_code": c.Query("status_code"),
		"start_date":  c.Query("start_date"),
		"end_date":    c.Query("end_date"),
	}

	items, total, err := h.svc.ListTenders(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, gin.H{
		"items": items,
		"pagination": Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
		},
	})
}

// Get 标书详情
// GET /api/v1/tenders/:id
func (h *TenderHandler) Get(c *gin.Context) {
	id := c.Param("id")
	tender, err := h.svc.GetTender(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Tender not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, tender)
}

// Create 建档
// POST /api/v1/tenders
func (h *TenderHandler) Create(c *gin.Context) {
	var req service.CreateTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tender, err := h.svc.CreateTender(c.Request.Context(), &req, GetUserID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Created(c, tender)
}

// UpdateStatusRequest 状态流转请求
type UpdateStatusRequest struct {
	StatusCode int `json:"status_code" binding:"required"`
}

// UpdateStatus 状态流转
// PUT /api/v1/tenders/:id/status
func (h *TenderHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.svc.UpdateTenderStatus(c.Request.Context(), id, req.StatusCode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Tender not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, gin.H{"id": id, "status_code": req.StatusCode})
}

// TimerRequest 计时器请求
type TimerRequest struct {
	StageName  string `json:"stage_name" binding:"required"`
	AssigneeID string `json:"assignee_id"`
}

// StartTimer 开始阶段计时
// POST /api/v1/tenders/:id/timers/start
func (h *TenderHandler) StartTimer(c *gin.Context) {
	var req TimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	assigneeID := req.AssigneeID
	if assigneeID == "" {
		assigneeID = GetUserID(c)
	}

	timer, err := h.svc.StartStageTimer(c.Request.Context(), c.Param("id"), req.StageName, assigneeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Tender not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Created(c, timer)
}

// CompleteTimer 完成阶段计时
// POST /api/v1/tenders/:id/timers/complete
func (h *TenderHandler) CompleteTimer(c *gin.Context) {
	var req TimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	assigneeID := req.AssigneeID
	if assigneeID == "" {
		assigneeID = GetUserID(c)
	}

	timer, err := h.svc.CompleteStageTimer(c.Request.Context(), c.Param("id"), req.StageName, assigneeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Running timer not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, timer)
}

// InfoSheetRequest 信息表录入请求
type InfoSheetRequest struct {
	Remarks string `json:"remarks"`
}

// CreateInfoSheet 录入信息表
// POST /api/v1/tenders/:id/info-sheet
func (h *TenderHandler) CreateInfoSheet(c *gin.Context) {
	var req InfoSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.RecordInfoSheet(c.Request.Context(), c.Param("id"), GetUserID(c), req.Remarks)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Tender not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Created(c, m)
}

// BidSubmissionRequest 投标递交录入请求
type BidSubmissionRequest struct {
	PortalRef   string     `json:"portal_ref"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// CreateBidSubmission 录入投标递交
// POST /api/v1/tenders/:id/bid-submissions
func (h *TenderHandler) CreateBidSubmission(c *gin.Context) {
	var req BidSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.RecordBidSubmission(c.Request.Context(), c.Param("id"), GetUserID(c), req.PortalRef, req.SubmittedAt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Tender not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Created(c, m)
}

// CreateResult 录入开标结果
// POST /api/v1/tenders/:id/results
func (h *TenderHandler) CreateResult(c *gin.Context) {
	var req service.RecordResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.RecordResult(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Tender not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, m)
}

// ReverseAuctionRequest 反拍录入请求
type ReverseAuctionRequest struct {
	StartPrice *float64   `json:"start_price"`
	FinalPrice *float64   `json:"final_price"`
	HeldAt     *time.Time `json:"held_at"`
}

// CreateReverseAuction 录入反拍记录
// POST /api/v1/tenders/:id/reverse-auctions
func (h *TenderHandler) CreateReverseAuction(c *gin.Context) {
	var req ReverseAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.RecordReverseAuction(c.Request.Context(), c.Param("id"), req.StartPrice, req.FinalPrice, req.HeldAt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Tender not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Created(c, m)
}

// QueryRequest 质询录入请求
type QueryRequest struct {
	Question string `json:"question" binding:"required"`
}

// CreateQuery 录入质询记录
// POST /api/v1/tenders/:id/queries
func (h *TenderHandler) CreateQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.RecordQuery(c.Request.Context(), c.Param("id"), req.Question)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Tender not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Created(c, m)
}

// CreateEmdRequest 创建保证金申请
// POST /api/v1/tenders/:id/emd-requests
func (h *TenderHandler) CreateEmdRequest(c *gin.Context) {
	var input service.CreateEmdRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	req, err := h.svc.CreateEmdRequest(c.Request.Context(), c.Param("id"), &input, GetUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Tender not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, req)
}

// InstrumentActionRequest 工具动作请求
type InstrumentActionRequest struct {
	Action int `json:"action" binding:"required"`
}

// UpdateInstrumentAction 推进保证金工具动作
// PUT /api/v1/emd-requests/:id/action
func (h *TenderHandler) UpdateInstrumentAction(c *gin.Context) {
	var req InstrumentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.UpdateInstrumentAction(c.Request.Context(), c.Param("id"), req.Action)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Payment request not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, result)
}
