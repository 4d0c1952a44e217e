package main

import (
	"github.com/gin-gonic/gin"

	"github.com/hetansh2220/hoperise/internal/cache"
	"github.com/hetansh2220/hoperise/internal/config"
	"github.com/hetansh2220/hoperise/internal/gateway"
	"github.com/hetansh2220/hoperise/internal/ledger"
	"github.com/hetansh2220/hoperise/internal/logger"
	"github.com/hetansh2220/hoperise/internal/router"
	"github.com/hetansh2220/hoperise/internal/task"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	setupLogger(cfg.Log)
	defer logger.Sync()

	// 初始化账本客户端
	client, err := ledger.Init(cfg.Ledger)
	if err != nil {
		logger.Fatal("Failed to initialize ledger client: %v", err)
	}

	// 初始化内容网关
	gw := gateway.NewClient(cfg.Gateway)

	// 初始化缓存层
	store, err := cache.NewStore(client, cache.WindowsFromConfig(cfg.Cache), cfg.Cache.RefreshWorkers)
	if err != nil {
		logger.Fatal("Failed to initialize cache store: %v", err)
	}
	defer store.Close()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(store, client, gw, cfg)

	// 启动定时任务
	manager := task.Start(store, cfg)
	defer manager.Stop()

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := logger.ParseLogLevel(cfg.GetLevel())
	if cfg.GetOutput() == "file" {
		l, err := logger.NewWithFileRotation(level, cfg.GetFile())
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(l)
		return
	}
	logger.SetLevel(level)
}
