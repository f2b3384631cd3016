package service

import (
	"testing"
	"time"

	"github.com/bitfantasy/tms/internal/tender/entity"
)

func timerStage() StageDef {
	for _, def := range stageRegistry {
		if def.Key == StageBidSubmission {
			return def
		}
	}
	panic("bid_submission stage not registered")
}

func factsWithDue(due time.Time) *TenderFacts {
	return &TenderFacts{
		Tender: &entity.Tender{
			ID:       "t1",
			TenderNo: "TDR-202603-0001",
			DueDate:  &due,
		},
		Timers: make(map[string]*entity.StageTimer),
	}
}

func TestEvaluateStageCompletedOnTime(t *testing.T) {
	due := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	f := factsWithDue(due)
	ended := due.Add(-2 * time.Hour)
	f.Timers[StageBidSubmission] = &entity.StageTimer{
		Status:    entity.TimerCompleted,
		StartedAt: due.Add(-48 * time.Hour),
		EndedAt:   &ended,
	}

	perf := EvaluateStage(f, timerStage(), due.Add(24*time.Hour))
	if !perf.Applicable || !perf.Completed {
		t.Fatalf("want applicable+completed, got %+v", perf)
	}
	if perf.OnTime == nil || !*perf.OnTime {
		t.Errorf("want on time, got %+v", perf.OnTime)
	}
	if perf.SilentOverdue {
		t.Error("completed timer must not be silent overdue")
	}
}

func TestEvaluateStageCompletedLate(t *testing.T) {
	due := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	f := factsWithDue(due)
	ended := due.Add(3 * time.Hour)
	f.Timers[StageBidSubmission] = &entity.StageTimer{
		Status:    entity.TimerCompleted,
		StartedAt: due.Add(-48 * time.Hour),
		EndedAt:   &ended,
	}

	perf := EvaluateStage(f, timerStage(), due.Add(24*time.Hour))
	if perf.OnTime == nil || *perf.OnTime {
		t.Errorf("want late, got %+v", perf.OnTime)
	}
}

// 截止日未到、没有计时器：还是待办，不折算
func TestEvaluateStageNoTimerBeforeDeadline(t *testing.T) {
	due := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	f := factsWithDue(due)

	perf := EvaluateStage(f, timerStage(), due.Add(-24*time.Hour))
	if perf.Completed {
		t.Errorf("want pending, got %+v", perf)
	}
	if perf.OnTime != nil {
		t.Errorf("pending stage must have nil OnTime, got %v", *perf.OnTime)
	}
}

// 截止日已过、没有计时器：静默超期折算为completed+超时
func TestEvaluateStageSilentOverdue(t *testing.T) {
	due := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	f := factsWithDue(due)

	perf := EvaluateStage(f, timerStage(), due.Add(24*time.Hour))
	if !perf.Completed || !perf.SilentOverdue {
		t.Fatalf("want silent-overdue completion, got %+v", perf)
	}
	if perf.OnTime == nil || *perf.OnTime {
		t.Errorf("silent overdue must count as not on time, got %+v", perf.OnTime)
	}
}

// 进行中的计时器过了截止日同样折算
func TestEvaluateStageRunningPastDeadline(t *testing.T) {
	due := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	f := factsWithDue(due)
	f.Timers[StageBidSubmission] = &entity.StageTimer{
		Status:    entity.TimerRunning,
		StartedAt: due.Add(-48 * time.Hour),
	}

	perf := EvaluateStage(f, timerStage(), due.Add(24*time.Hour))
	if !perf.Completed || !perf.SilentOverdue {
		t.Fatalf("want silent-overdue completion, got %+v", perf)
	}
}

// 无截止日的阶段完成后OnTime保持三态中的"无从谈起"
func TestEvaluateStageNoDeadlineOnTimeNil(t *testing.T) {
	f := &TenderFacts{
		Tender: &entity.Tender{ID: "t1", TenderNo: "TDR-202603-0002"},
		Timers: make(map[string]*entity.StageTimer),
	}
	ended := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	f.Timers[StageBidSubmission] = &entity.StageTimer{
		Status:    entity.TimerCompleted,
		StartedAt: ended.Add(-time.Hour),
		EndedAt:   &ended,
	}

	perf := EvaluateStage(f, timerStage(), ended.Add(time.Hour))
	if !perf.Completed {
		t.Fatalf("want completed, got %+v", perf)
	}
	if perf.OnTime != nil {
		t.Errorf("no deadline means OnTime must be nil, got %v", *perf.OnTime)
	}
}

// 不适用阶段：EMD为0时保证金申请阶段整体不适用
func TestEvaluateStageNotApplicable(t *testing.T) {
	f := &TenderFacts{
		Tender: &entity.Tender{ID: "t1", TenderNo: "TDR-202603-0003"},
		Timers: make(map[string]*entity.StageTimer),
	}
	var emdDef StageDef
	for _, def := range stageRegistry {
		if def.Key == StageEmdRequest {
			emdDef = def
		}
	}

	perf := EvaluateStage(f, emdDef, time.Now())
	if perf.Applicable {
		t.Errorf("EMD stage must be inapplicable without EMD amount, got %+v", perf)
	}
}

// 存在型阶段：有记录即完成
func TestEvaluateStageExistence(t *testing.T) {
	f := &TenderFacts{
		Tender: &entity.Tender{ID: "t1", TenderNo: "TDR-202603-0004"},
		Timers: make(map[string]*entity.StageTimer),
	}
	var infoDef StageDef
	for _, def := range stageRegistry {
		if def.Key == StageInfoSheet {
			infoDef = def
		}
	}

	perf := EvaluateStage(f, infoDef, time.Now())
	if perf.Completed {
		t.Error("no info sheet yet, must be pending")
	}

	f.HasInfoSheet = true
	perf = EvaluateStage(f, infoDef, time.Now())
	if !perf.Completed {
		t.Error("info sheet present, must be completed")
	}
	if perf.OnTime != nil {
		t.Error("existence stage has no SLA, OnTime must be nil")
	}
}

// 非负责人口径跳过审批阶段
func TestEvaluateTenderLeaderScope(t *testing.T) {
	f := &TenderFacts{
		Tender: &entity.Tender{ID: "t1", TenderNo: "TDR-202603-0005"},
		Timers: make(map[string]*entity.StageTimer),
	}
	now := time.Now()

	hasApproval := func(perfs []StagePerformance) bool {
		for _, p := range perfs {
			if p.StageKey == StageApproval {
				return true
			}
		}
		return false
	}

	if hasApproval(EvaluateTender(f, now, false)) {
		t.Error("executive scope must not contain approval stage")
	}
	if !hasApproval(EvaluateTender(f, now, true)) {
		t.Error("leader scope must contain approval stage")
	}
}
