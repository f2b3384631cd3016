package service

import (
	"testing"
	"time"

	"github.com/bitfantasy/tms/internal/tender/entity"
)

func ledgerSnapshot(tenders []entity.Tender) *Snapshot {
	snap := &Snapshot{
		Tenders: tenders,
		Facts:   make(map[string]*TenderFacts),
		results: make(map[string]*entity.TenderResult),
	}
	for i := range tenders {
		t := &snap.Tenders[i]
		snap.Facts[t.ID] = &TenderFacts{
			Tender: t,
			Timers: make(map[string]*entity.StageTimer),
		}
	}
	return snap
}

func stageByKey(l *BacklogLedger, key string) *StageLedger {
	for i := range l.Stages {
		if l.Stages[i].StageKey == key {
			return &l.Stages[i]
		}
	}
	return nil
}

// 窗口前建档、无任何里程碑的标书：计入assigned期初，不计入期中发生额
func TestBacklogOpeningExcludedFromDuring(t *testing.T) {
	window, _ := ParseWindow("2026-03-01", "2026-03-31")
	before := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	snap := ledgerSnapshot([]entity.Tender{
		{ID: "t1", TenderNo: "N1", StatusCode: 3, CreatedAt: before},
	})
	ledger := buildBacklogLedger(snap, window)

	assigned := stageByKey(ledger, LedgerAssigned)
	if assigned.Opening.Count != 1 {
		t.Errorf("assigned opening = %d, want 1", assigned.Opening.Count)
	}
	if assigned.Total.Count != 1 {
		t.Errorf("assigned total = %d, want 1", assigned.Total.Count)
	}
	if assigned.During.Total.Count != 0 {
		t.Errorf("assigned during.total = %d, want 0", assigned.During.Total.Count)
	}
}

// 窗口内建档并录入信息表的标书：assigned期中已完成，approved仍未完成
func TestBacklogDuringSplit(t *testing.T) {
	window, _ := ParseWindow("2026-03-01", "2026-03-31")
	during := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

	snap := ledgerSnapshot([]entity.Tender{
		{ID: "t1", TenderNo: "N1", StatusCode: 4, CreatedAt: during},
	})
	snap.Facts["t1"].HasInfoSheet = true
	ledger := buildBacklogLedger(snap, window)

	assigned := stageByKey(ledger, LedgerAssigned)
	if assigned.During.Completed.Count != 1 || assigned.During.Pending.Count != 0 {
		t.Errorf("assigned during = %+v, want 1 completed", assigned.During)
	}
	if assigned.Total.Count != 0 {
		t.Errorf("assigned total = %d, want 0 (info sheet done)", assigned.Total.Count)
	}

	approved := stageByKey(ledger, LedgerApproved)
	if approved.During.Pending.Count != 1 {
		t.Errorf("approved during.pending = %d, want 1", approved.During.Pending.Count)
	}
}

// 进入终态(missed)的标书：只出现在missed阶段，从非终态链路全部剔除
func TestBacklogTerminalExclusion(t *testing.T) {
	window, _ := ParseWindow("2026-03-01", "2026-03-31")
	before := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

	snap := ledgerSnapshot([]entity.Tender{
		{ID: "t1", TenderNo: "N1", StatusCode: 15, CreatedAt: before},
	})
	ledger := buildBacklogLedger(snap, window)

	missed := stageByKey(ledger, LedgerMissed)
	if missed.Opening.Count != 1 || missed.Total.Count != 1 {
		t.Errorf("missed ledger = opening %d total %d, want 1/1", missed.Opening.Count, missed.Total.Count)
	}

	for _, key := range []string{LedgerAssigned, LedgerApproved, LedgerBid, LedgerResultAwaited} {
		sl := stageByKey(ledger, key)
		if sl.Opening.Count != 0 || sl.Total.Count != 0 || sl.During.Total.Count != 0 {
			t.Errorf("%s must not contain terminal tender: %+v", key, sl)
		}
	}
}

// 窗口内中标：won阶段期中计入已完成
func TestBacklogTerminalDuring(t *testing.T) {
	window, _ := ParseWindow("2026-03-01", "2026-03-31")
	during := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

	value := 2000000.0
	snap := ledgerSnapshot([]entity.Tender{
		{ID: "t1", TenderNo: "N1", StatusCode: 24, TenderValue: &value, CreatedAt: during},
	})
	ledger := buildBacklogLedger(snap, window)

	won := stageByKey(ledger, LedgerWon)
	if won.Opening.Count != 0 {
		t.Errorf("won opening = %d, want 0", won.Opening.Count)
	}
	if won.Total.Count != 1 || won.Total.Value != value {
		t.Errorf("won total = %+v, want count 1 value %v", won.Total, value)
	}
	if won.During.Completed.Count != 1 {
		t.Errorf("won during.completed = %d, want 1", won.During.Completed.Count)
	}
}

// 期初恒为期末的子集（同口径下opening的标书都还在total里）
func TestBacklogOpeningSubsetOfTotal(t *testing.T) {
	window, _ := ParseWindow("2026-03-01", "2026-03-31")
	before := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)
	during := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	snap := ledgerSnapshot([]entity.Tender{
		{ID: "t1", TenderNo: "N1", StatusCode: 3, CreatedAt: before},
		{ID: "t2", TenderNo: "N2", StatusCode: 6, CreatedAt: before},
		{ID: "t3", TenderNo: "N3", StatusCode: 17, CreatedAt: during},
		{ID: "t4", TenderNo: "N4", StatusCode: 33, CreatedAt: before},
	})
	snap.Facts["t2"].HasInfoSheet = true
	snap.Facts["t3"].HasInfoSheet = true
	ledger := buildBacklogLedger(snap, window)

	for _, sl := range ledger.Stages {
		if sl.Opening.Count > sl.Total.Count {
			t.Errorf("%s: opening %d exceeds total %d", sl.StageKey, sl.Opening.Count, sl.Total.Count)
		}
	}
}

// 空快照：所有阶段零值而不报错
func TestBacklogEmptySnapshot(t *testing.T) {
	window, _ := ParseWindow("2026-03-01", "2026-03-31")
	ledger := buildBacklogLedger(&Snapshot{Facts: map[string]*TenderFacts{}}, window)
	if len(ledger.Stages) != len(LedgerStageOrder) {
		t.Fatalf("got %d stages, want %d", len(ledger.Stages), len(LedgerStageOrder))
	}
	for _, sl := range ledger.Stages {
		if sl.Opening.Count != 0 || sl.Total.Count != 0 {
			t.Errorf("%s not zeroed: %+v", sl.StageKey, sl)
		}
	}
}
