package service

import (
	"time"

	"github.com/bitfantasy/tms/internal/tender/entity"
)

// StagePerformance 单标书单阶段的判定结果
// OnTime三态：nil表示无从谈起（未完成或无截止日）
type StagePerformance struct {
	TenderID string `json:"tender_id"`
	TenderNo string `json:"tender_no"`
	StageKey string `json:"stage_key"`

	Applicable bool  `json:"applicable"`
	Completed  bool  `json:"completed"`
	OnTime     *bool `json:"on_time"`

	// 已过截止日却无完成记录，按"静默超期"折算为completed+超时；
	// 矩阵把这类与真实的迟完成分开统计
	SilentOverdue bool `json:"silent_overdue,omitempty"`

	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
}

// EvaluateStage 判定单个阶段
// 对缺行不报错：没有计时器/里程碑是合法的"尚未发生"状态
func EvaluateStage(f *TenderFacts, def StageDef, now time.Time) StagePerformance {
	perf := StagePerformance{
		TenderID: f.Tender.ID,
		TenderNo: f.Tender.TenderNo,
		StageKey: def.Key,
	}

	if !def.Applicable(f) {
		return perf
	}
	perf.Applicable = true
	perf.Deadline = def.Deadline(f.Tender)

	if def.Kind == KindExistence {
		// 存在型阶段：有记录即完成，无SLA概念
		perf.Completed = existenceCompleted(f, def.Key)
		return perf
	}

	timer := f.Timers[def.Key]
	if timer != nil {
		perf.StartTime = &timer.StartedAt
		perf.EndTime = timer.EndedAt
	}

	if timer != nil && timer.Status == entity.TimerCompleted && timer.EndedAt != nil {
		perf.Completed = true
		if perf.Deadline != nil {
			onTime := !timer.EndedAt.After(*perf.Deadline)
			perf.OnTime = &onTime
		}
		return perf
	}

	// 无计时器或仍在进行：过了截止日按静默超期折算
	if perf.Deadline != nil && now.After(*perf.Deadline) {
		perf.Completed = true
		perf.SilentOverdue = true
		onTime := false
		perf.OnTime = &onTime
	}
	return perf
}

// EvaluateTender 按注册表顺序判定全部阶段
// leaderScope为false时跳过仅团队负责人口径的阶段
func EvaluateTender(f *TenderFacts, now time.Time, leaderScope bool) []StagePerformance {
	perfs := make([]StagePerformance, 0, len(stageRegistry))
	for _, def := range stageRegistry {
		if def.LeaderOnly && !leaderScope {
			continue
		}
		perfs = append(perfs, EvaluateStage(f, def, now))
	}
	return perfs
}

func existenceCompleted(f *TenderFacts, stageKey string) bool {
	switch stageKey {
	case StageInfoSheet:
		return f.HasInfoSheet
	case StageReverseAuction:
		return f.HasRAProof
	case StageResult:
		return f.LatestResult != nil
	}
	return false
}
