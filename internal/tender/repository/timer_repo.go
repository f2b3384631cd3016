package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bitfantasy/tms/internal/tender/entity"
	"gorm.io/gorm"
)

// TimerRepository 阶段计时器仓库
type TimerRepository struct {
	db *gorm.DB
}

func NewTimerRepository(db *gorm.DB) *TimerRepository {
	return &TimerRepository{db: db}
}

// FindByTenderIDs 批量取标书的全部计时器（报表取数用）
func (r *TimerRepository) FindByTenderIDs(ctx context.Context, tenderIDs []string) ([]entity.StageTimer, error) {
	if len(tenderIDs) == 0 {
		return nil, nil
	}
	var items []entity.StageTimer
	err := r.db.WithContext(ctx).
		Where("tender_id IN ?", tenderIDs).
		Order("started_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// FindLive 查找同键的在用计时器
func (r *TimerRepository) FindLive(ctx context.Context, tenderID, stageName, assigneeID string) (*entity.StageTimer, error) {
	var t entity.StageTimer
	query := r.db.WithContext(ctx).
		Where("tender_id = ? AND stage_name = ?", tenderID, stageName)
	if assigneeID != "" {
		query = query.Where("assignee_id = ?", assigneeID)
	}
	err := query.Order("started_at DESC").First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create 创建计时器
func (r *TimerRepository) Create(ctx context.Context, t *entity.StageTimer) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// Complete 完成计时器
func (r *TimerRepository) Complete(ctx context.Context, id string, endedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&entity.StageTimer{}).
		Where("id = ? AND status = ?", id, entity.TimerRunning).
		Updates(map[string]interface{}{
			"status":   entity.TimerCompleted,
			"ended_at": endedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
