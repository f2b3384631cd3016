package service

import (
	"context"
	"time"

	"github.com/bitfantasy/tms/internal/tender/entity"
	"github.com/bitfantasy/tms/internal/tender/repository"
	"go.uber.org/zap"
)

// 逾期判定：开标已出且未中标，结果公布14天后保证金仍被占用
const emdOverdueDays = 14

// EmdItem 保证金明细行
type EmdItem struct {
	RequestID      string     `json:"request_id"`
	TenderID       string     `json:"tender_id"`
	TenderNo       string     `json:"tender_no"`
	TenderName     string     `json:"tender_name"`
	InstrumentType string     `json:"instrument_type"`
	Amount         float64    `json:"amount"`
	At             *time.Time `json:"at,omitempty"`
}

// EmdCell 保证金余额：计数+金额+下钻
type EmdCell struct {
	Count  int       `json:"count"`
	Amount float64   `json:"amount"`
	Items  []EmdItem `json:"items"`
}

func (c *EmdCell) add(item EmdItem) {
	c.Count++
	c.Amount += item.Amount
	c.Items = append(c.Items, item)
}

// EmdBalance 保证金余额表
type EmdBalance struct {
	Window    Window  `json:"window"`
	Opening   EmdCell `json:"opening"`   // 期初占用：窗口前发起且仍占用
	Requested EmdCell `json:"requested"` // 期中新发起
	Returned  EmdCell `json:"returned"`  // 期中退回
	Settled   EmdCell `json:"settled"`   // 期中没收/兑付
	Closing   EmdCell `json:"closing"`   // 期末占用：当前全部占用
	Overdue   EmdCell `json:"overdue"`   // 期末占用中已逾期的部分，恒为Closing子集
}

// EmdCashFlow 保证金现金流
// 没收/兑付(settled)不算资金回流，刻意排除在received之外
type EmdCashFlow struct {
	Window Window `json:"window"`
	Paid   struct {
		Prior  EmdCell `json:"prior"`  // 窗口前付出
		During EmdCell `json:"during"` // 窗口内付出
	} `json:"paid"`
	Received struct {
		PriorPaid  EmdCell `json:"prior_paid"`  // 本期退回、付出在窗口前
		DuringPaid EmdCell `json:"during_paid"` // 本期退回、付出也在窗口内
	} `json:"received"`
}

// EmdCashFlowTrend 按粒度切桶的现金流趋势
type EmdCashFlowTrend struct {
	Granularity string        `json:"granularity"`
	Buckets     []EmdFlowSlot `json:"buckets"`
}

type EmdFlowSlot struct {
	Label    string  `json:"label"`
	Window   Window  `json:"window"`
	Paid     EmdCell `json:"paid"`
	Received EmdCell `json:"received"`
}

// EmdService 保证金报表服务
type EmdService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewEmdService(repos *repository.Repositories, logger *zap.Logger) *EmdService {
	return &EmdService{repos: repos, logger: logger}
}

// GetUserBalance 个人口径余额表
func (s *EmdService) GetUserBalance(ctx context.Context, userID string, window Window) (*EmdBalance, error) {
	snap, err := LoadSnapshot(ctx, s.repos, []string{userID})
	if err != nil {
		return nil, err
	}
	return buildEmdBalance(snap, window), nil
}

// GetTeamBalance 团队口径余额表
func (s *EmdService) GetTeamBalance(ctx context.Context, teamID string, window Window) (*EmdBalance, error) {
	snap, err := s.loadTeamSnapshot(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return buildEmdBalance(snap, window), nil
}

// GetUserCashFlow 个人口径现金流
func (s *EmdService) GetUserCashFlow(ctx context.Context, userID string, window Window) (*EmdCashFlow, error) {
	snap, err := LoadSnapshot(ctx, s.repos, []string{userID})
	if err != nil {
		return nil, err
	}
	return buildEmdCashFlow(snap, window), nil
}

// GetTeamCashFlow 团队口径现金流
func (s *EmdService) GetTeamCashFlow(ctx context.Context, teamID string, window Window) (*EmdCashFlow, error) {
	snap, err := s.loadTeamSnapshot(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return buildEmdCashFlow(snap, window), nil
}

// GetTeamCashFlowTrend 团队现金流趋势（week|month）
func (s *EmdService) GetTeamCashFlowTrend(ctx context.Context, teamID string, window Window, granularity string) (*EmdCashFlowTrend, error) {
	snap, err := s.loadTeamSnapshot(ctx, teamID)
	if err != nil {
		return nil, err
	}
	trend := &EmdCashFlowTrend{Granularity: granularity}
	for _, bucket := range window.Buckets(granularity) {
		flow := buildEmdCashFlow(snap, bucket)
		slot := EmdFlowSlot{Label: bucket.Label(granularity), Window: bucket}
		slot.Paid = flow.Paid.During
		mergeCell(&slot.Received, flow.Received.PriorPaid)
		mergeCell(&slot.Received, flow.Received.DuringPaid)
		trend.Buckets = append(trend.Buckets, slot)
	}
	return trend, nil
}

func (s *EmdService) loadTeamSnapshot(ctx context.Context, teamID string) (*Snapshot, error) {
	members, err := s.repos.Directory.FindTeamMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	ownerIDs := make([]string, 0, len(members))
	for _, m := range members {
		ownerIDs = append(ownerIDs, m.ID)
	}
	return LoadSnapshot(ctx, s.repos, ownerIDs)
}

// buildEmdBalance 余额表纯计算
func buildEmdBalance(snap *Snapshot, window Window) *EmdBalance {
	b := &EmdBalance{Window: window}

	for i := range snap.Payments {
		req := &snap.Payments[i]
		inst := req.Instrument
		if inst == nil {
			continue
		}
		state := inst.State()
		item := emdItemFor(snap, req, inst)

		// 期初：窗口前发起且当前仍占用
		if state == entity.StateLocked && inst.CreatedAt.Before(window.From) {
			withAt(&item, inst.CreatedAt)
			b.Opening.add(item)
		}
		// 期中发起
		if window.Contains(inst.CreatedAt) {
			withAt(&item, inst.CreatedAt)
			b.Requested.add(item)
		}
		// 期中退回/没收：以工具更新时间落在窗口内为准
		if state == entity.StateReturned && window.Contains(inst.UpdatedAt) {
			withAt(&item, inst.UpdatedAt)
			b.Returned.add(item)
		}
		if state == entity.StateSettled && window.Contains(inst.UpdatedAt) {
			withAt(&item, inst.UpdatedAt)
			b.Settled.add(item)
		}
		// 期末：当前全部占用
		if state == entity.StateLocked {
			withAt(&item, inst.CreatedAt)
			b.Closing.add(item)
			if emdOverdue(snap, req, window) {
				b.Overdue.add(item)
			}
		}
	}
	return b
}

// emdOverdue 占用逾期：结果已公布、未中标、公布14天后窗口仍未到账
func emdOverdue(snap *Snapshot, req *entity.PaymentRequest, window Window) bool {
	res := snap.ResultFor(req.TenderID)
	if res == nil || res.DeclaredAt == nil {
		return false
	}
	f := snap.FactsFor(req.TenderID)
	if f != nil && f.Tender.Bucket() == entity.BucketWon {
		return false
	}
	if res.Outcome == "won" {
		return false
	}
	return res.DeclaredAt.AddDate(0, 0, emdOverdueDays).Before(window.To)
}

// buildEmdCashFlow 现金流纯计算
func buildEmdCashFlow(snap *Snapshot, window Window) *EmdCashFlow {
	flow := &EmdCashFlow{Window: window}

	for i := range snap.Payments {
		req := &snap.Payments[i]
		inst := req.Instrument
		if inst == nil {
			continue
		}
		item := emdItemFor(snap, req, inst)

		// 付出侧按发起时间切分
		if inst.CreatedAt.Before(window.From) {
			withAt(&item, inst.CreatedAt)
			flow.Paid.Prior.add(item)
		} else if window.Contains(inst.CreatedAt) {
			withAt(&item, inst.CreatedAt)
			flow.Paid.During.add(item)
		}

		// 回流侧只认本期退回；没收/兑付不是回流
		if inst.State() == entity.StateReturned && window.Contains(inst.UpdatedAt) {
			withAt(&item, inst.UpdatedAt)
			if inst.CreatedAt.Before(window.From) {
				flow.Received.PriorPaid.add(item)
			} else {
				flow.Received.DuringPaid.add(item)
			}
		}
	}
	return flow
}

func emdItemFor(snap *Snapshot, req *entity.PaymentRequest, inst *entity.PaymentInstrument) EmdItem {
	item := EmdItem{
		RequestID:      req.ID,
		TenderID:       req.TenderID,
		InstrumentType: inst.InstrumentType,
	}
	if inst.Amount != nil {
		item.Amount = *inst.Amount
	} else if req.Amount != nil {
		item.Amount = *req.Amount
	}
	if f := snap.FactsFor(req.TenderID); f != nil {
		item.TenderNo = f.Tender.TenderNo
		item.TenderName = f.Tender.Name
	}
	return item
}

func withAt(item *EmdItem, at time.Time) {
	t := at
	item.At = &t
}

func mergeCell(dst *EmdCell, src EmdCell) {
	dst.Count += src.Count
	dst.Amount += src.Amount
	dst.Items = append(dst.Items, src.Items...)
}
