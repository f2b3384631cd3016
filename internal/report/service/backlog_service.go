package service

import (
	"context"
	"database/sql"

	"github.com/bitfantasy/tms/internal/tender/entity"
	"github.com/bitfantasy/tms/internal/tender/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 台账阶段键
const (
	LedgerAssigned      = "assigned"
	LedgerApproved      = "approved"
	LedgerBid           = "bid"
	LedgerResultAwaited = "result_awaited"
	LedgerWon           = "won"
	LedgerLost          = "lost"
	LedgerDisqualified  = "disqualified"
	LedgerMissed        = "missed"
)

// LedgerStageOrder 台账阶段顺序：先非终态链路，后终态
var LedgerStageOrder = []string{
	LedgerAssigned, LedgerApproved, LedgerBid, LedgerResultAwaited,
	LedgerWon, LedgerLost, LedgerDisqualified, LedgerMissed,
}

var terminalLedgerStages = map[string]entity.StatusBucket{
	LedgerWon:          entity.BucketWon,
	LedgerLost:         entity.BucketLost,
	LedgerDisqualified: entity.BucketDisqualified,
	LedgerMissed:       entity.BucketMissed,
}

// LedgerCell 台账余额：计数+金额+下钻
type LedgerCell struct {
	Count int         `json:"count"`
	Value float64     `json:"value"`
	Items []DrillItem `json:"items"`
}

func (c *LedgerCell) add(item DrillItem) {
	c.Count++
	c.Value += item.Value
	c.Items = append(c.Items, item)
}

// DuringCell 期中发生额：窗口内新建标书在该阶段的完成/未完成拆分
type DuringCell struct {
	Total     LedgerCell `json:"total"`
	Completed LedgerCell `json:"completed"`
	Pending   LedgerCell `json:"pending"`
}

// StageLedger 单阶段台账
type StageLedger struct {
	StageKey string     `json:"stage_key"`
	Terminal bool       `json:"terminal"`
	Opening  LedgerCell `json:"opening"`
	During   DuringCell `json:"during"`
	Total    LedgerCell `json:"total"`
}

// BacklogLedger 积压台账：每个阶段一份 期初/期中/期末 余额
type BacklogLedger struct {
	Window Window        `json:"window"`
	Stages []StageLedger `json:"stages"`
}

// BacklogService 积压台账服务
//
// 已知取舍：期中(during)的完成与否用的是当前状态，而不是截至To时点的
// 历史快照——状态行是原地更新的，没有事件日志可回放。调整口径前需要
// 产品确认，不要悄悄"修正"。
type BacklogService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewBacklogService(db *gorm.DB, logger *zap.Logger) *BacklogService {
	return &BacklogService{db: db, logger: logger}
}

// GetUserBacklog 个人口径台账
func (s *BacklogService) GetUserBacklog(ctx context.Context, userID string, window Window) (*BacklogLedger, error) {
	return s.compute(ctx, []string{userID}, window)
}

// GetTeamBacklog 团队口径台账
func (s *BacklogService) GetTeamBacklog(ctx context.Context, teamID string, window Window) (*BacklogLedger, error) {
	members, err := repository.NewDirectoryRepository(s.db).FindTeamMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return buildBacklogLedger(&Snapshot{Facts: map[string]*TenderFacts{}}, window), nil
	}
	ownerIDs := make([]string, 0, len(members))
	for _, m := range members {
		ownerIDs = append(ownerIDs, m.ID)
	}
	return s.compute(ctx, ownerIDs, window)
}

// compute 在REPEATABLE READ只读事务里取数，
// 避免标书/里程碑联表在计算中途漂移造成开闭不一致
func (s *BacklogService) compute(ctx context.Context, ownerIDs []string, window Window) (*BacklogLedger, error) {
	tx := s.db.WithContext(ctx).Begin(&sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	snap, err := LoadSnapshot(ctx, repository.NewRepositories(tx), ownerIDs)
	if err != nil {
		return nil, err
	}
	return buildBacklogLedger(snap, window), nil
}

// buildBacklogLedger 纯计算部分
func buildBacklogLedger(snap *Snapshot, window Window) *BacklogLedger {
	ledger := &BacklogLedger{Window: window}
	for _, key := range LedgerStageOrder {
		ledger.Stages = append(ledger.Stages, computeStageLedger(snap, window, key))
	}
	return ledger
}

func computeStageLedger(snap *Snapshot, window Window, stageKey string) StageLedger {
	terminalBucket, isTerminal := terminalLedgerStages[stageKey]
	sl := StageLedger{StageKey: stageKey, Terminal: isTerminal}

	for i := range snap.Tenders {
		t := &snap.Tenders[i]
		f := snap.Facts[t.ID]
		if f == nil {
			continue
		}
		bucket := t.Bucket()
		item := ledgerDrillItem(t)
		createdBefore := t.CreatedAt.Before(window.From)
		createdDuring := window.Contains(t.CreatedAt)

		if isTerminal {
			// 终态阶段看终态记录是否匹配，而不是未完成判定
			if bucket != terminalBucket {
				continue
			}
			if createdBefore {
				sl.Opening.add(item)
			}
			sl.Total.add(item)
			if createdDuring {
				// 进入终态即视为期中已完成
				sl.During.Total.add(item)
				sl.During.Completed.add(item)
			}
			continue
		}

		// 进入终态的标书从所有非终态阶段里永久剔除
		if bucket.IsTerminal() {
			continue
		}

		pending := stagePending(f, bucket, stageKey)
		if createdBefore && pending {
			sl.Opening.add(item)
		}
		if pending {
			sl.Total.add(item)
		}
		if createdDuring {
			sl.During.Total.add(item)
			if pending {
				sl.During.Pending.add(item)
			} else {
				sl.During.Completed.add(item)
			}
		}
	}
	return sl
}

// stagePending 非终态阶段的未完成判定：下游标志缺失即未完成
func stagePending(f *TenderFacts, bucket entity.StatusBucket, stageKey string) bool {
	switch stageKey {
	case LedgerAssigned:
		return !f.HasInfoSheet
	case LedgerApproved:
		// 信息表在手、且还没有审批结论或后续动作
		if !f.HasInfoSheet {
			return true
		}
		return bucket != entity.BucketApproved &&
			bucket != entity.BucketRejected &&
			!bucket.ImpliesBidPlaced()
	case LedgerBid:
		return f.LatestBid == nil
	case LedgerResultAwaited:
		if f.LatestBid == nil {
			return true
		}
		return f.LatestResult == nil
	}
	return false
}

func ledgerDrillItem(t *entity.Tender) DrillItem {
	item := DrillItem{
		TenderID:   t.ID,
		TenderNo:   t.TenderNo,
		TenderName: t.Name,
	}
	if t.TenderValue != nil {
		item.Value = *t.TenderValue
	}
	at := t.CreatedAt
	item.At = &at
	return item
}
