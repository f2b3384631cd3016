package entity

import "time"

// InfoSheet 信息表（立项资料）
// 每个标书最多一条，存在即视为该阶段完成
type InfoSheet struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	TenderID    string    `json:"tender_id" gorm:"size:32;not null;uniqueIndex"`
	SubmittedBy string    `json:"submitted_by" gorm:"size:32"`
	Remarks     string    `json:"remarks" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (InfoSheet) TableName() string {
	return "info_sheets"
}

// BidSubmission 投标递交记录
// 允许多条（撤回重交），取created_at最新一条为准
type BidSubmission struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	TenderID    string     `json:"tender_id" gorm:"size:32;not null;index"`
	SubmittedBy string     `json:"submitted_by" gorm:"size:32"`
	SubmittedAt *time.Time `json:"submitted_at"`
	PortalRef   string     `json:"portal_ref" gorm:"size:128"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (BidSubmission) TableName() string {
	return "bid_submissions"
}

// TenderResult 开标结果
// 允许多条（更正公告），取created_at最新一条为准
type TenderResult struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	TenderID   string     `json:"tender_id" gorm:"size:32;not null;index"`
	Outcome    string     `json:"outcome" gorm:"size:20"` // won/lost/disqualified
	DeclaredAt *time.Time `json:"declared_at"`
	WinnerName string     `json:"winner_name" gorm:"size:256"`
	WinAmount  *float64   `json:"win_amount" gorm:"type:decimal(15,2)"`
	CreatedAt  time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (TenderResult) TableName() string {
	return "tender_results"
}

// ReverseAuctionRecord 反向竞价记录
type ReverseAuctionRecord struct {
	ID         string     `json:"id" gorm:"primaryKey;size:32"`
	TenderID   string     `json:"tender_id" gorm:"size:32;not null;index"`
	StartPrice *float64   `json:"start_price" gorm:"type:decimal(15,2)"`
	FinalPrice *float64   `json:"final_price" gorm:"type:decimal(15,2)"`
	HeldAt     *time.Time `json:"held_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (ReverseAuctionRecord) TableName() string {
	return "reverse_auction_records"
}

// TenderQuery 澄清/质询记录
// 存在即表示该标书进入答疑阶段
type TenderQuery struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	TenderID    string     `json:"tender_id" gorm:"size:32;not null;index"`
	Question    string     `json:"question" gorm:"type:text"`
	Response    string     `json:"response" gorm:"type:text"`
	RespondedAt *time.Time `json:"responded_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (TenderQuery) TableName() string {
	return "tender_queries"
}
