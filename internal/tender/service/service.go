package service

import (
	"github.com/bitfantasy/tms/internal/config"
	"github.com/bitfantasy/tms/internal/tender/repository"
	"github.com/redis/go-redis/v9"
)

// Services 投标模块服务集合
type Services struct {
	Tender *TenderService
	Auth   *AuthService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config) *Services {
	return &Services{
		Tender: NewTenderService(repos),
		Auth:   NewAuthService(repos.Directory, rdb, cfg),
	}
}
