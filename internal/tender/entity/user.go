package entity

import "time"

// 用户角色
const (
	RoleExecutive  = "executive"   // 投标专员
	RoleTeamLeader = "team_leader" // 团队负责人
	RoleOEM        = "oem"         // 厂商协同账号
	RoleAdmin      = "admin"
)

// User 用户
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Username  string    `json:"username" gorm:"size:64;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Email     string    `json:"email" gorm:"size:128;uniqueIndex"`
	Password  string    `json:"-" gorm:"size:128"`
	Role      string    `json:"role" gorm:"size:20;default:executive"`
	TeamID    string    `json:"team_id" gorm:"size:32;index"`
	Status    string    `json:"status" gorm:"size:20;default:active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Team *Team `json:"team,omitempty" gorm:"foreignKey:TeamID"`
}

func (User) TableName() string {
	return "users"
}

// Team 投标团队
type Team struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	LeaderID  string    `json:"leader_id" gorm:"size:32"`
	Status    string    `json:"status" gorm:"size:20;default:active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}
