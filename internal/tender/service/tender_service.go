package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/tms/internal/tender/entity"
	"github.com/bitfantasy/tms/internal/tender/repository"
	"github.com/google/uuid"
)

// TenderService 标书服务
// 负责标书台账的写入路径：建档、状态流转、阶段计时、里程碑录入、保证金申请。
// 报表侧只读取这里落库的事实，不回写。
type TenderService struct {
	repos *repository.Repositories
}

// NewTenderService 创建标书服务
func NewTenderService(repos *repository.Repositories) *TenderService {
	return &TenderService{repos: repos}
}

// CreateTenderRequest 建档请求
type CreateTenderRequest struct {
	Name              string     `json:"name" binding:"required"`
	TenderValue       *float64   `json:"tender_value"`
	EMDAmount         *float64   `json:"emd_amount"`
	Currency          string     `json:"currency"`
	DueDate           *time.Time `json:"due_date"`
	TeamID            string     `json:"team_id"`
	HasReverseAuction bool       `json:"has_reverse_auction"`
	Website           string     `json:"website"`
}

// ListTenders 分页查询标书
func (s *TenderService) ListTenders(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Tender, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.repos.Tender.FindAll(ctx, page, pageSize, filters)
}

// GetTender 标书详情
func (s *TenderService) GetTender(ctx context.Context, id string) (*entity.Tender, error) {
	return s.repos.Tender.FindByID(ctx, id)
}

// CreateTender 建档
// 归属人缺省为操作人；未传team_id时继承归属人所在团队
func (s *TenderService) CreateTender(ctx context.Context, req *CreateTenderRequest, operatorID string) (*entity.Tender, error) {
	tenderNo, err := s.repos.Tender.GenerateTenderNo(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate tender no: %w", err)
	}

	teamID := req.TeamID
	if teamID == "" {
		owner, err := s.repos.Directory.FindUserByID(ctx, operatorID)
		if err == nil {
			teamID = owner.TeamID
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	t := &entity.Tender{
		ID:                generateID(),
		TenderNo:          tenderNo,
		Name:              req.Name,
		StatusCode:        1,
		TenderValue:       req.TenderValue,
		EMDAmount:         req.EMDAmount,
		Currency:          currency,
		DueDate:           req.DueDate,
		OwnerID:           operatorID,
		TeamID:            teamID,
		HasReverseAuction: req.HasReverseAuction,
		Website:           req.Website,
	}

	if err := s.repos.Tender.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create tender: %w", err)
	}
	return t, nil
}

// UpdateTenderStatus 状态流转
// 只做码值校验，不限制流转方向：更正公告等场景允许回退
func (s *TenderService) UpdateTenderStatus(ctx context.Context, id string, statusCode int) error {
	if statusCode < 1 || statusCode > 41 {
		return fmt.Errorf("invalid status code: %d", statusCode)
	}
	return s.repos.Tender.UpdateStatus(ctx, id, statusCode)
}

// StartStageTimer 开始阶段计时
// 同键已有在用计时器时直接返回该计时器，不重复开表
func (s *TenderService) StartStageTimer(ctx context.Context, tenderID, stageName, assigneeID string) (*entity.StageTimer, error) {
	if _, err := s.repos.Tender.FindByID(ctx, tenderID); err != nil {
		return nil, err
	}

	live, err := s.repos.Timer.FindLive(ctx, tenderID, stageName, assigneeID)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}
	if live != nil && live.Status == entity.TimerRunning {
		return live, nil
	}

	timer := &entity.StageTimer{
		ID:         generateID(),
		TenderID:   tenderID,
		StageName:  stageName,
		AssigneeID: assigneeID,
		Status:     entity.TimerRunning,
		StartedAt:  time.Now(),
	}
	if err := s.repos.Timer.Create(ctx, timer); err != nil {
		return nil, fmt.Errorf("create timer: %w", err)
	}
	return timer, nil
}

// CompleteStageTimer 完成阶段计时
func (s *TenderService) CompleteStageTimer(ctx context.Context, tenderID, stageName, assigneeID string) (*entity.StageTimer, error) {
	live, err := s.repos.Timer.FindLive(ctx, tenderID, stageName, assigneeID)
	if err != nil {
		return nil, err
	}
	if live.Status != entity.TimerRunning {
		return nil, fmt.Errorf("timer already completed")
	}

	endedAt := time.Now()
	if err := s.repos.Timer.Complete(ctx, live.ID, endedAt); err != nil {
		return nil, err
	}
	live.Status = entity.TimerCompleted
	live.EndedAt = &endedAt
	return live, nil
}

// RecordInfoSheet 录入信息表
func (s *TenderService) RecordInfoSheet(ctx context.Context, tenderID, operatorID, remarks string) (*entity.InfoSheet, error) {
	if _, err := s.repos.Tender.FindByID(ctx, tenderID); err != nil {
		return nil, err
	}
	m := &entity.InfoSheet{
		ID:          generateID(),
		TenderID:    tenderID,
		SubmittedBy: operatorID,
		Remarks:     remarks,
	}
	if err := s.repos.Milestone.CreateInfoSheet(ctx, m); err != nil {
		return nil, fmt.Errorf("create info sheet: %w", err)
	}
	return m, nil
}

// RecordBidSubmission 录入投标递交
func (s *TenderService) RecordBidSubmission(ctx context.Context, tenderID, operatorID, portalRef string, submittedAt *time.Time) (*entity.BidSubmission, error) {
	if _, err := s.repos.Tender.FindByID(ctx, tenderID); err != nil {
		return nil, err
	}
	if submittedAt == nil {
		now := time.Now()
		submittedAt = &now
	}
	m := &entity.BidSubmission{
		ID:          generateID(),
		TenderID:    tenderID,
		SubmittedBy: operatorID,
		SubmittedAt: submittedAt,
		PortalRef:   portalRef,
	}
	if err := s.repos.Milestone.CreateBidSubmission(ctx, m); err != nil {
		return nil, fmt.Errorf("create bid submission: %w", err)
	}
	return m, nil
}

// RecordResultRequest 开标结果录入请求
type RecordResultRequest struct {
	Outcome    string     `json:"outcome" binding:"required"`
	DeclaredAt *time.Time `json:"declared_at"`
	WinnerName string     `json:"winner_name"`
	WinAmount  *float64   `json:"win_amount"`
}

// RecordResult 录入开标结果
func (s *TenderService) RecordResult(ctx context.Context, tenderID string, req *RecordResultRequest) (*entity.TenderResult, error) {
	switch req.Outcome {
	case "won", "lost", "disqualified":
	default:
		return nil, fmt.Errorf("invalid outcome: %s", req.Outcome)
	}
	if _, err := s.repos.Tender.FindByID(ctx, tenderID); err != nil {
		return nil, err
	}
	declaredAt := req.DeclaredAt
	if declaredAt == nil {
		now := time.Now()
		declaredAt = &now
	}
	m := &entity.TenderResult{
		ID:         generateID(),
		TenderID:   tenderID,
		Outcome:    req.Outcome,
		DeclaredAt: declaredAt,
		WinnerName: req.WinnerName,
		WinAmount:  req.WinAmount,
	}
	if err := s.repos.Milestone.CreateResult(ctx, m); err != nil {
		return nil, fmt.Errorf("create tender result: %w", err)
	}
	return m, nil
}

// RecordReverseAuction 录入反拍记录
func (s *TenderService) RecordReverseAuction(ctx context.Context, tenderID string, startPrice, finalPrice *float64, heldAt *time.Time) (*entity.ReverseAuctionRecord, error) {
	if _, err := s.repos.Tender.FindByID(ctx, tenderID); err != nil {
		return nil, err
	}
	m := &entity.ReverseAuctionRecord{
		ID:         generateID(),
		TenderID:   tenderID,
		StartPrice: startPrice,
		FinalPrice: finalPrice,
		HeldAt:     heldAt,
	}
	if err := s.repos.Milestone.CreateReverseAuction(ctx, m); err != nil {
		return nil, fmt.Errorf("create reverse auction record: %w", err)
	}
	return m, nil
}

// RecordQuery 录入质询记录
func (s *TenderService) RecordQuery(ctx context.Context, tenderID, question string) (*entity.TenderQuery, error) {
	if _, err := s.repos.Tender.FindByID(ctx, tenderID); err != nil {
		return nil, err
	}
	m := &entity.TenderQuery{
		ID:       generateID(),
		TenderID: tenderID,
		Question: question,
	}
	if err := s.repos.Milestone.CreateQuery(ctx, m); err != nil {
		return nil, fmt.Errorf("create tender query: %w", err)
	}
	return m, nil
}

// CreateEmdRequestInput 保证金申请录入
type CreateEmdRequestInput struct {
	Amount         *float64   `json:"amount"`
	InstrumentType string     `json:"instrument_type" binding:"required"`
	InstrumentNo   string     `json:"instrument_no"`
	ExpiryDate     *time.Time `json:"expiry_date"`
}

var validInstrumentTypes = map[string]bool{
	entity.InstrumentDD:            true,
	entity.InstrumentFDR:           true,
	entity.InstrumentBG:            true,
	entity.InstrumentCheque:        true,
	entity.InstrumentBankTransfer:  true,
	entity.InstrumentPortalPayment: true,
}

// CreateEmdRequest 创建保证金申请（连带工具记录）
// 未传金额时取标书上的保证金额度
func (s *TenderService) CreateEmdRequest(ctx context.Context, tenderID string, input *CreateEmdRequestInput, operatorID string) (*entity.PaymentRequest, error) {
	if !validInstrumentTypes[input.InstrumentType] {
		return nil, fmt.Errorf("invalid instrument type: %s", input.InstrumentType)
	}

	tender, err := s.repos.Tender.FindByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	amount := input.Amount
	if amount == nil {
		amount = tender.EMDAmount
	}

	req := &entity.PaymentRequest{
		ID:        generateID(),
		TenderID:  tenderID,
		Purpose:   entity.PaymentPurposeEMD,
		Amount:    amount,
		Status:    "pending",
		CreatedBy: operatorID,
		Instrument: &entity.PaymentInstrument{
			ID:             generateID(),
			InstrumentType: input.InstrumentType,
			Action:         entity.ActionRequested,
			Status:         "active",
			Amount:         amount,
			InstrumentNo:   input.InstrumentNo,
			ExpiryDate:     input.ExpiryDate,
		},
	}
	req.Instrument.RequestID = req.ID

	if err := s.repos.Payment.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create payment request: %w", err)
	}
	return req, nil
}

// UpdateInstrumentAction 推进工具动作码
// 动作合法性只校验码值范围；(类型,动作)到资金状态的归类由实体层决定
func (s *TenderService) UpdateInstrumentAction(ctx context.Context, requestID string, action int) (*entity.PaymentRequest, error) {
	if action < entity.ActionRequested || action > entity.ActionBGExpired {
		return nil, fmt.Errorf("invalid action code: %d", action)
	}

	req, err := s.repos.Payment.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Instrument == nil {
		return nil, fmt.Errorf("payment request has no instrument")
	}

	if err := s.repos.Payment.UpdateInstrumentAction(ctx, req.Instrument.ID, action); err != nil {
		return nil, err
	}
	req.Instrument.Action = action
	return req, nil
}

func generateID() string {
	return uuid.New().String()[:32]
}
