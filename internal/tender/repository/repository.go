package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	Tender    *TenderRepository
	Timer     *TimerRepository
	Milestone *MilestoneRepository
	Payment   *PaymentRepository
	Directory *DirectoryRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tender:    NewTenderRepository(db),
		Timer:     NewTimerRepository(db),
		Milestone: NewMilestoneRepository(db),
		Payment:   NewPaymentRepository(db),
		Directory: NewDirectoryRepository(db),
	}
}
