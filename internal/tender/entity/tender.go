package entity

import (
	"time"

	"gorm.io/gorm"
)

// Tender 标书
// status_code 随生命周期变化（1~41），不会重建记录
type Tender struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	TenderNo   string `json:"tender_no" gorm:"size:64;uniqueIndex;not null"`
	Name       string `json:"name" gorm:"size:256;not null"`
	StatusCode int    `json:"status_code" gorm:"not null;default:1;index"`

	// 金额
	TenderValue *float64 `json:"tender_value" gorm:"type:decimal(15,2)"`
	EMDAmount   *float64 `json:"emd_amount" gorm:"type:decimal(15,2)"`
	Currency    string   `json:"currency" gorm:"size:10;default:INR"`

	// 关键日期
	DueDate *time.Time `json:"due_date" gorm:"index"`

	// 归属
	OwnerID string `json:"owner_id" gorm:"size:32;not null;index"`
	TeamID  string `json:"team_id" gorm:"size:32;index"`

	// 流程标记
	HasReverseAuction bool   `json:"has_reverse_auction" gorm:"default:false"`
	Website           string `json:"website" gorm:"size:128"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// 关联
	Owner *User `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Team  *Team `json:"team,omitempty" gorm:"foreignKey:TeamID"`
}

func (Tender) TableName() string {
	return "tenders"
}
