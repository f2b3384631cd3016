package repository

import (
	"context"

	"github.com/bitfantasy/tms/internal/tender/entity"
	"gorm.io/gorm"
)

// MilestoneRepository 里程碑记录仓库
// 信息表/投标递交/开标结果/反拍/质询统一在此取数
type MilestoneRepository struct {
	db *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// FindInfoSheets 批量取信息表
func (r *MilestoneRepository) FindInfoSheets(ctx context.Context, tenderIDs []string) ([]entity.InfoSheet, error) {
	if len(tenderIDs) == 0 {
		return nil, nil
	}
	var items []entity.InfoSheet
	err := r.db.WithContext(ctx).
		Where("tender_id IN ?", tenderIDs).
		Find(&items).Error
	return items, err
}

// FindBidSubmissions 批量取投标递交记录（含历史版本，取舍在上层做）
func (r *MilestoneRepository) FindBidSubmissions(ctx context.Context, tenderIDs []string) ([]entity.BidSubmission, error) {
	if len(tenderIDs) == 0 {
		return nil, nil
	}
	var items []entity.BidSubmission
	err := r.db.WithContext(ctx).
		Where("tender_id IN ?", tenderIDs).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// FindResults 批量取开标结果（含更正公告，取舍在上层做）
func (r *MilestoneRepository) FindResults(ctx context.Context, tenderIDs []string) ([]entity.TenderResult, error) {
	if len(tenderIDs) == 0 {
		return nil, nil
	}
	var items []entity.TenderResult
	err := r.db.WithContext(ctx).
		Where("tender_id IN ?", tenderIDs).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

// FindReverseAuctions 批量取反拍记录
func (r *MilestoneRepository) FindReverseAuctions(ctx context.Context, tenderIDs []string) ([]entity.ReverseAuctionRecord, error) {
	if len(tenderIDs) == 0 {
		return nil, nil
	}
	var items []entity.ReverseAuctionRecord
	err := r.db.WithContext(ctx).
		Where("tender_id IN ?", tenderIDs).
		Find(&items).Error
	return items, err
}

// FindQueries 批量取质询记录
func (r *MilestoneRepository) FindQueries(ctx context.Context, tenderIDs []string) ([]entity.TenderQuery, error) {
	if len(tenderIDs) == 0 {
		return nil, nil
	}
	var items []entity.TenderQuery
	err := r.db.WithContext(ctx).
		Where("tender_id IN ?", tenderIDs).
		Find(&items).Error
	return items, err
}

// CreateInfoSheet 录入信息表
func (r *MilestoneRepository) CreateInfoSheet(ctx context.Context, m *entity.InfoSheet) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// CreateBidSubmission 录入投标递交
func (r *MilestoneRepository) CreateBidSubmission(ctx context.Context, m *entity.BidSubmission) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// CreateResult 录入开标结果
func (r *MilestoneRepository) CreateResult(ctx context.Context, m *entity.TenderResult) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// CreateReverseAuction 录入反拍记录
func (r *MilestoneRepository) CreateReverseAuction(ctx context.Context, m *entity.ReverseAuctionRecord) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// CreateQuery 录入质询记录
func (r *MilestoneRepository) CreateQuery(ctx context.Context, m *entity.TenderQuery) error {
	return r.db.WithContext(ctx).Create(m).Error
}
