package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/tms/internal/tender/entity"
	"gorm.io/gorm"
)

// TenderRepository 标书仓库
type TenderRepository struct {
	db *gorm.DB
}

func NewTenderRepository(db *gorm.DB) *TenderRepository {
	return &TenderRepository{db: db}
}

// FindAll 查询标书列表
func (r *TenderRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Tender, int64, error) {
	var items []entity.Tender
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Tender{})

	if ownerID := filters["owner_id"]; ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	if teamID := filters["team_id"]; teamID != "" {
		query = query.Where("team_id = ?", teamID)
	}
	if status := filters["status_code"]; status != "" {
		query = query.Where("status_code = ?", status)
	}
	if startDate := filters["start_date"]; startDate != "" {
		query = query.Where("created_at >= ?", startDate)
	}
	if endDate := filters["end_date"]; endDate != "" {
		query = query.Where("created_at <= ?", endDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Owner").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找标书
func (r *TenderRepository) FindByID(ctx context.Context, id string) (*entity.Tender, error) {
	var t entity.Tender
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByOwners 查询归属指定用户的全部标书（报表取数用，不分页）
func (r *TenderRepository) FindByOwners(ctx context.Context, ownerIDs []string) ([]entity.Tender, error) {
	if len(ownerIDs) == 0 {
		return nil, nil
	}
	var items []entity.Tender
	err := r.db.WithContext(ctx).
		Where("owner_id IN ?", ownerIDs).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// Create 创建标书
func (r *TenderRepository) Create(ctx context.Context, t *entity.Tender) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// Update 更新标书
func (r *TenderRepository) Update(ctx context.Context, t *entity.Tender) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// UpdateStatus 更新状态码
func (r *TenderRepository) UpdateStatus(ctx context.Context, id string, statusCode int) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Tender{}).
		Where("id = ?", id).
		Update("status_code", statusCode)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateTenderNo 生成标书编号 TDR-YYYYMM-XXXX
func (r *TenderRepository) GenerateTenderNo(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("TDR-%s", time.Now().Format("200601"))
	var count int64
	err := r.db.WithContext(ctx).
		Unscoped().
		Model(&entity.Tender{}).
		Where("tender_no LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefix, count+1), nil
}
