package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/tms/internal/tender/entity"
	"gorm.io/gorm"
)

// PaymentRepository 付款仓库
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// FindEMDByTenderIDs 批量取标书的保证金申请（带工具）
func (r *PaymentRepository) FindEMDByTenderIDs(ctx context.Context, tenderIDs []string) ([]entity.PaymentRequest, error) {
	if len(tenderIDs) == 0 {
		return nil, nil
	}
	var items []entity.PaymentRequest
	err := r.db.WithContext(ctx).
		Preload("Instrument").
		Where("tender_id IN ? AND purpose = ?", tenderIDs, entity.PaymentPurposeEMD).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// FindRequestByID 查找付款申请
func (r *PaymentRepository) FindRequestByID(ctx context.Context, id string) (*entity.PaymentRequest, error) {
	var p entity.PaymentRequest
	err := r.db.WithContext(ctx).
		Preload("Instrument").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CreateRequest 创建付款申请（带工具）
func (r *PaymentRepository) CreateRequest(ctx context.Context, p *entity.PaymentRequest) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// UpdateInstrumentAction 更新工具动作码
func (r *PaymentRepository) UpdateInstrumentAction(ctx context.Context, instrumentID string, action int) error {
	result := r.db.WithContext(ctx).
		Model(&entity.PaymentInstrument{}).
		Where("id = ?", instrumentID).
		Update("action", action)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
