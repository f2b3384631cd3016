package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/tms/internal/tender/entity"
	"gorm.io/gorm"
)

// DirectoryRepository 通讯录仓库（用户与团队）
type DirectoryRepository struct {
	db *gorm.DB
}

func NewDirectoryRepository(db *gorm.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// FindUserByID 根据ID查找用户
func (r *DirectoryRepository) FindUserByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindUserByUsername 根据用户名查找用户
func (r *DirectoryRepository) FindUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindTeamByID 根据ID查找团队
func (r *DirectoryRepository) FindTeamByID(ctx context.Context, id string) (*entity.Team, error) {
	var t entity.Team
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindTeamMembers 查询团队成员（稳定排序，保证报表可重复）
func (r *DirectoryRepository) FindTeamMembers(ctx context.Context, teamID string) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND status = ?", teamID, "active").
		Order("id ASC").
		Find(&users).Error
	return users, err
}
