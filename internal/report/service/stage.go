package service

import (
	"time"

	"github.com/bitfantasy/tms/internal/tender/entity"
)

// StageKind 阶段判定方式
type StageKind string

const (
	KindTimer     StageKind = "timer"     // 依据阶段计时器
	KindExistence StageKind = "existence" // 依据里程碑记录是否存在
)

// 阶段键值，与stage_timers.stage_name一致
const (
	StageInfoSheet      = "info_sheet"
	StageApproval       = "approval"
	StageEmdRequest     = "emd_request"
	StageBidSubmission  = "bid_submission"
	StageQueryResponse  = "query_response"
	StageReverseAuction = "reverse_auction"
	StageResult         = "result"
)

// StageDef 阶段描述符
// 适用性判定与截止日解析都是具名纯函数，注册表只持引用
type StageDef struct {
	Key        string
	Name       string
	Kind       StageKind
	LeaderOnly bool
	Applicable func(f *TenderFacts) bool
	Deadline   func(t *entity.Tender) *time.Time
}

// stageRegistry 阶段注册表，按流程顺序排列，启动后只读
var stageRegistry = []StageDef{
	{Key: StageInfoSheet, Name: "信息表", Kind: KindExistence, Applicable: applicableAlways, Deadline: deadlineNone},
	{Key: StageApproval, Name: "投标审批", Kind: KindTimer, LeaderOnly: true, Applicable: applicableAlways, Deadline: deadlineTwoDaysBeforeDue},
	{Key: StageEmdRequest, Name: "保证金申请", Kind: KindTimer, Applicable: applicableIfEmdRequired, Deadline: deadlineOneDayBeforeDue},
	{Key: StageBidSubmission, Name: "投标递交", Kind: KindTimer, Applicable: applicableAlways, Deadline: deadlineDueDate},
	{Key: StageQueryResponse, Name: "质询答复", Kind: KindTimer, Applicable: applicableIfQueryRaised, Deadline: deadlineNone},
	{Key: StageReverseAuction, Name: "反向竞价", Kind: KindExistence, Applicable: applicableIfReverseAuction, Deadline: deadlineNone},
	{Key: StageResult, Name: "开标结果", Kind: KindExistence, Applicable: applicableIfBidPlaced, Deadline: deadlineNone},
}

// Stages 返回阶段注册表
func Stages() []StageDef {
	return stageRegistry
}

// StageKeys 阶段键值列表（矩阵列顺序）
func StageKeys() []string {
	keys := make([]string, 0, len(stageRegistry))
	for _, def := range stageRegistry {
		keys = append(keys, def.Key)
	}
	return keys
}

// === 适用性判定 ===

func applicableAlways(f *TenderFacts) bool {
	return true
}

// applicableIfEmdRequired 标书要求缴纳保证金时才有该阶段
func applicableIfEmdRequired(f *TenderFacts) bool {
	return f.Tender.EMDAmount != nil && *f.Tender.EMDAmount > 0
}

// applicableIfQueryRaised 存在质询记录才有答复阶段
func applicableIfQueryRaised(f *TenderFacts) bool {
	return f.HasQuery
}

// applicableIfReverseAuction 标书带反拍环节才适用
func applicableIfReverseAuction(f *TenderFacts) bool {
	return f.Tender.HasReverseAuction
}

// applicableIfBidPlaced 分类表明已递交投标才谈得上开标结果
func applicableIfBidPlaced(f *TenderFacts) bool {
	return f.Tender.Bucket().ImpliesBidPlaced()
}

// === 截止日解析 ===

func deadlineNone(t *entity.Tender) *time.Time {
	return nil
}

func deadlineDueDate(t *entity.Tender) *time.Time {
	return t.DueDate
}

func deadlineDaysBeforeDue(t *entity.Tender, days int) *time.Time {
	if t.DueDate == nil {
		return nil
	}
	d := t.DueDate.AddDate(0, 0, -days)
	return &d
}

func deadlineOneDayBeforeDue(t *entity.Tender) *time.Time {
	return deadlineDaysBeforeDue(t, 1)
}

func deadlineTwoDaysBeforeDue(t *entity.Tender) *time.Time {
	return deadlineDaysBeforeDue(t, 2)
}
