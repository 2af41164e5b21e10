package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MoyuStudio/focus-duo-backend/api"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/config"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/database"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/health"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/logger"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/shutdown"
	"github.com/MoyuStudio/focus-duo-backend/internal/platform/startup"
	"github.com/MoyuStudio/focus-duo-backend/internal/presence"
	"github.com/MoyuStudio/focus-duo-backend/internal/stats"
	"github.com/MoyuStudio/focus-duo-backend/pkg/lifecycle"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env里的变量会被viper的AutomaticEnv捡到
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	if _, err := logger.Init(cfg.Server.Mode); err != nil {
		panic(fmt.Sprintf("初始化日志失败: %v", err))
	}
	defer logger.Sync()

	database.InitDB(cfg.Database.Archive)
	database.InitRedis(cfg.Database.Redis)

	// 阻塞式获取初始Run ID，再执行首次初始化
	health.InitializeRunID()
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 后台服务挂到两阶段生命周期管理器上
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()

	healthHandle, err := gracefulMgr.Register("redis-health-checker")
	if err != nil {
		panic(err)
	}
	go health.StartRedisHealthCheck(healthHandle)

	snapshotHandle, err := gracefulMgr.Register("stats-snapshot")
	if err != nil {
		panic(err)
	}
	go stats.StartSnapshotLoop(snapshotHandle)

	hubHandle, err := gracefulMgr.Register("live-feed-hub")
	if err != nil {
		panic(err)
	}
	presence.StartHub(hubHandle)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		logger.L().Info("服务器已准备就绪", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic("Failed to start server: " + err.Error())
		}
	}()

	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
