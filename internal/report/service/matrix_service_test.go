package service

import (
	"testing"
	"time"

	"github.com/bitfantasy/tms/internal/tender/entity"
)

func boolPtr(v bool) *bool { return &v }

func testMatrixService() *MatrixService {
	return &MatrixService{now: time.Now}
}

// 归类互斥：overdue不落done/late，pending不落done
func TestTabulateRowAssignment(t *testing.T) {
	window, _ := ParseWindow("2026-03-01", "2026-03-31")
	facts := map[string]*TenderFacts{
		"t1": {Tender: &entity.Tender{ID: "t1", TenderNo: "N1", Name: "标书一"}},
	}

	perfs := []StagePerformance{
		{TenderID: "t1", StageKey: StageInfoSheet, Applicable: true, Completed: true, OnTime: boolPtr(true)},
		{TenderID: "t1", StageKey: StageBidSubmission, Applicable: true, Completed: true, OnTime: boolPtr(false)},
		{TenderID: "t1", StageKey: StageEmdRequest, Applicable: true, Completed: true, SilentOverdue: true, OnTime: boolPtr(false)},
		{TenderID: "t1", StageKey: StageQueryResponse, Applicable: true},
		{TenderID: "t1", StageKey: StageReverseAuction},
		{TenderID: "t1", StageKey: StageResult, Applicable: true, Completed: true},
	}

	m := testMatrixService().tabulate(window, perfs, facts, true)

	check := func(row, stage string, want int) {
		t.Helper()
		if got := m.Rows[row][stage].Count; got != want {
			t.Errorf("rows[%s][%s] = %d, want %d", row, stage, got, want)
		}
	}

	// 按时完成：done+on_time
	check(RowDone, StageInfoSheet, 1)
	check(RowOnTime, StageInfoSheet, 1)
	check(RowLate, StageInfoSheet, 0)

	// 迟完成：done+late
	check(RowDone, StageBidSubmission, 1)
	check(RowLate, StageBidSubmission, 1)
	check(RowOnTime, StageBidSubmission, 0)

	// 静默超期：只落overdue行
	check(RowOverdue, StageEmdRequest, 1)
	check(RowDone, StageEmdRequest, 0)
	check(RowLate, StageEmdRequest, 0)
	check(RowPending, StageEmdRequest, 0)

	// 待办
	check(RowPending, StageQueryResponse, 1)

	// 不适用
	check(RowNotApplicable, StageReverseAuction, 1)

	// 完成但无截止日：只落done
	check(RowDone, StageResult, 1)
	check(RowOnTime, StageResult, 0)
	check(RowLate, StageResult, 0)
}

// 非负责人口径的矩阵不应有审批列
func TestTabulateExecutiveScopeHidesApproval(t *testing.T) {
	window, _ := ParseWindow("2026-03-01", "2026-03-31")
	m := testMatrixService().tabulate(window, nil, nil, false)
	for _, key := range m.Stages {
		if key == StageApproval {
			t.Fatal("executive matrix must not include approval column")
		}
	}

	leader := testMatrixService().tabulate(window, nil, nil, true)
	found := false
	for _, key := range leader.Stages {
		if key == StageApproval {
			found = true
		}
	}
	if !found {
		t.Fatal("leader matrix must include approval column")
	}
}

// 零成员团队给零值矩阵，每个单元格0
func TestEmptyMatrixZeroed(t *testing.T) {
	window, _ := ParseWindow("2026-03-01", "2026-03-31")
	m := newStageMatrix(window, StageKeys())
	for row, stages := range m.Rows {
		for key, cell := range stages {
			if cell.Count != 0 || len(cell.Items) != 0 {
				t.Errorf("rows[%s][%s] not zeroed: %+v", row, key, cell)
			}
		}
	}
}

// 下钻明细带标书名与金额
func TestDrillItemFor(t *testing.T) {
	value := 1500000.0
	ended := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f := &TenderFacts{
		Tender: &entity.Tender{ID: "t1", TenderNo: "N1", Name: "配电工程", TenderValue: &value},
	}
	p := StagePerformance{TenderID: "t1", TenderNo: "N1", StageKey: StageBidSubmission, EndTime: &ended}

	item := drillItemFor(f, p)
	if item.TenderName != "配电工程" || item.Value != value {
		t.Errorf("unexpected drill item: %+v", item)
	}
	if item.At == nil || !item.At.Equal(ended) {
		t.Errorf("At = %v, want %v", item.At, ended)
	}
}
