package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitfantasy/tms/internal/config"
	"github.com/bitfantasy/tms/internal/middleware"
	reporthandler "github.com/bitfantasy/tms/internal/report/handler"
	reportsvc "github.com/bitfantasy/tms/internal/report/service"
	"github.com/bitfantasy/tms/internal/tender/entity"
	"github.com/bitfantasy/tms/internal/tender/handler"
	"github.com/bitfantasy/tms/internal/tender/repository"
	"github.com/bitfantasy/tms/internal/tender/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting tms service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Team{},
		&entity.Tender{},
		&entity.StageTimer{},
		&entity.InfoSheet{},
		&entity.BidSubmission{},
		&entity.TenderResult{},
		&entity.ReverseAuctionRecord{},
		&entity.TenderQuery{},
		&entity.PaymentRequest{},
		&entity.PaymentInstrument{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	// 初始化Redis（刷新Token存储）
	rdb := initRedis(cfg.Redis)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zapLogger.Warn("Redis not reachable, token refresh will fail", zap.Error(err))
	}

	// 组装各层
	repos := repository.NewRepositories(db)
	tenderServices := service.NewServices(repos, rdb, cfg)
	reportServices := reportsvc.NewServices(db, repos, zapLogger)

	tenderHandlers := handler.NewHandlers(tenderServices, cfg)
	reportHandlers := reporthandler.NewHandlers(reportServices)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, tenderHandlers, reportHandlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, rh *reporthandler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证 (无需登录)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.POST("/logout", h.Auth.Logout)
		}

		// 业务接口 (需要登录)
		authed := v1.Group("")
		authed.Use(middleware.JWTAuth(cfg.JWT.Secret))
		{
			authed.GET("/auth/me", h.Auth.Me)

			// 标书台账
			tenders := authed.Group("/tenders")
			{
				tenders.GET("", h.Tender.List)
				tenders.POST("", h.Tender.Create)
				tenders.GET("/:id", h.Tender.Get)
				tenders.PUT("/:id/status", h.Tender.UpdateStatus)

				// 阶段计时
				tenders.POST("/:id/timers/start", h.Tender.StartTimer)
				tenders.POST("/:id/timers/complete", h.Tender.CompleteTimer)

				// 里程碑录入
				tenders.POST("/:id/info-sheet", h.Tender.CreateInfoSheet)
				tenders.POST("/:id/bid-submissions", h.Tender.CreateBidSubmission)
				tenders.POST("/:id/results", h.Tender.CreateResult)
				tenders.POST("/:id/reverse-auctions", h.Tender.CreateReverseAuction)
				tenders.POST("/:id/queries", h.Tender.CreateQuery)

				// 保证金申请
				tenders.POST("/:id/emd-requests", h.Tender.CreateEmdRequest)
			}

			// 保证金工具动作
			authed.PUT("/emd-requests/:id/action", h.Tender.UpdateInstrumentAction)

			// 报表（支持query param token，导出下载用）
			reports := authed.Group("/reports")
			{
				reports.GET("/stage-matrix", rh.Report.StageMatrix)
				reports.GET("/backlog", rh.Report.Backlog)
				reports.GET("/export", rh.Report.Export)

				reports.GET("/emd/balance", rh.Emd.Balance)
				reports.GET("/emd/cashflow", rh.Emd.CashFlow)

				reports.GET("/scores/users/:id", rh.Score.UserScore)
				reports.GET("/scores/teams/:id", rh.Score.TeamScore)
				reports.GET("/scores/oem/:id", rh.Score.OEMScore)
			}
		}
	}
}
