package service

import (
	"github.com/bitfantasy/tms/internal/tender/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 报表服务集合
// 全部只读、无状态：每次调用重新取数重新聚合，不做缓存
type Services struct {
	Matrix  *MatrixService
	Backlog *BacklogService
	Emd     *EmdService
	Score   *ScoreService
	Export  *ExportService
}

// NewServices 创建报表服务集合
func NewServices(db *gorm.DB, repos *repository.Repositories, logger *zap.Logger) *Services {
	matrix := NewMatrixService(repos, logger)
	backlog := NewBacklogService(db, logger)
	emd := NewEmdService(repos, logger)
	score := NewScoreService(matrix, repos, logger)
	export := NewExportService(matrix, backlog)

	return &Services{
		Matrix:  matrix,
		Backlog: backlog,
		Emd:     emd,
		Score:   score,
		Export:  export,
	}
}
