package service

import (
	"context"

	"github.com/bitfantasy/tms/internal/tender/entity"
	"github.com/bitfantasy/tms/internal/tender/repository"
)

// TenderFacts 单个标书的取数事实
// 引擎只读这份快照，不回查数据库
type TenderFacts struct {
	Tender *entity.Tender

	// 阶段计时器，stage_name→该标书下选定的一条
	Timers map[string]*entity.StageTimer

	HasInfoSheet bool
	HasQuery     bool
	HasRAProof   bool

	// 多条时取created_at最新
	LatestBid    *entity.BidSubmission
	LatestResult *entity.TenderResult
}

// Snapshot 一次报表计算的完整取数快照
type Snapshot struct {
	Tenders  []entity.Tender
	Facts    map[string]*TenderFacts    // tender_id → facts
	Payments []entity.PaymentRequest    // EMD申请（带工具）
	results  map[string]*entity.TenderResult
}

// FactsFor 取标书事实，没有时返回nil
func (s *Snapshot) FactsFor(tenderID string) *TenderFacts {
	return s.Facts[tenderID]
}

// ResultFor 取标书的最新开标结果
func (s *Snapshot) ResultFor(tenderID string) *entity.TenderResult {
	return s.results[tenderID]
}

// LoadSnapshot 为一组归属用户取数
// 同一个repos句柄内的读取应处于同一事务，保证开闭口径一致
func LoadSnapshot(ctx context.Context, repos *repository.Repositories, ownerIDs []string) (*Snapshot, error) {
	snap := &Snapshot{
		Facts:   make(map[string]*TenderFacts),
		results: make(map[string]*entity.TenderResult),
	}
	if len(ownerIDs) == 0 {
		return snap, nil
	}

	tenders, err := repos.Tender.FindByOwners(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	snap.Tenders = tenders
	if len(tenders) == 0 {
		return snap, nil
	}

	ids := make([]string, 0, len(tenders))
	for i := range tenders {
		t := &tenders[i]
		ids = append(ids, t.ID)
		snap.Facts[t.ID] = &TenderFacts{
			Tender: t,
			Timers: make(map[string]*entity.StageTimer),
		}
	}

	timers, err := repos.Timer.FindByTenderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range timers {
		tm := &timers[i]
		f := snap.Facts[tm.TenderID]
		if f == nil {
			continue
		}
		f.Timers[tm.StageName] = pickTimer(f.Timers[tm.StageName], tm, f.Tender.OwnerID)
	}

	infoSheets, err := repos.Milestone.FindInfoSheets(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range infoSheets {
		if f := snap.Facts[infoSheets[i].TenderID]; f != nil {
			f.HasInfoSheet = true
		}
	}

	bids, err := repos.Milestone.FindBidSubmissions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bids {
		b := &bids[i]
		f := snap.Facts[b.TenderID]
		if f == nil {
			continue
		}
		// 取最新一条为准
		if f.LatestBid == nil || b.CreatedAt.After(f.LatestBid.CreatedAt) {
			f.LatestBid = b
		}
	}

	results, err := repos.Milestone.FindResults(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range results {
		res := &results[i]
		f := snap.Facts[res.TenderID]
		if f == nil {
			continue
		}
		if f.LatestResult == nil || res.CreatedAt.After(f.LatestResult.CreatedAt) {
			f.LatestResult = res
			snap.results[res.TenderID] = res
		}
	}

	ras, err := repos.Milestone.FindReverseAuctions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range ras {
		if f := snap.Facts[ras[i].TenderID]; f != nil {
			f.HasRAProof = true
		}
	}

	queries, err := repos.Milestone.FindQueries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range queries {
		if f := snap.Facts[queries[i].TenderID]; f != nil {
			f.HasQuery = true
		}
	}

	payments, err := repos.Payment.FindEMDByTenderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	snap.Payments = payments

	return snap, nil
}

// pickTimer 同一阶段多条计时器时的取舍：
// 负责人本人的记录优先，其次取started_at较新的
func pickTimer(cur, candidate *entity.StageTimer, ownerID string) *entity.StageTimer {
	if cur == nil {
		return candidate
	}
	curOwned := cur.AssigneeID == ownerID
	candOwned := candidate.AssigneeID == ownerID
	if curOwned != candOwned {
		if candOwned {
			return candidate
		}
		return cur
	}
	if candidate.StartedAt.After(cur.StartedAt) {
		return candidate
	}
	return cur
}
