package entity

import "time"

// 计时器状态
const (
	TimerRunning   = "running"
	TimerCompleted = "completed"
)

// StageTimer 阶段计时器
// 以 (tender_id, stage_name, assignee_id) 为键，同键最多一条在用记录；
// 阶段开始时创建，完成时原地更新，不追加
type StageTimer struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	TenderID   string     `json:"tender_id" gorm:"size:32;not null;index:idx_stage_timer_key"`
	StageName  string     `json:"stage_name" gorm:"size:50;not null;index:idx_stage_timer_key"`
	AssigneeID string     `json:"assignee_id" gorm:"size:32;index:idx_stage_timer_key"`
	Status     string     `json:"status" gorm:"size:20;not null;default:running"` // running/completed
	StartedAt  time.Time  `json:"started_at" gorm:"not null"`
	EndedAt    *time.Time `json:"ended_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StageTimer) TableName() string {
	return "stage_timers"
}
