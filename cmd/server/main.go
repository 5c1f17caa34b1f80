package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MyFGitAccount/platform-efs/config"
	"github.com/MyFGitAccount/platform-efs/internal/api/handler"
	"github.com/MyFGitAccount/platform-efs/internal/api/router"
	"github.com/MyFGitAccount/platform-efs/internal/repository"
	"github.com/MyFGitAccount/platform-efs/internal/service"
	"github.com/MyFGitAccount/platform-efs/pkg/blobstore"
	"github.com/MyFGitAccount/platform-efs/pkg/database"
	"github.com/MyFGitAccount/platform-efs/pkg/jwt"
	applogger "github.com/MyFGitAccount/platform-efs/pkg/logger"
	"github.com/MyFGitAccount/platform-efs/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接 PostgreSQL
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 3.2 播种初始管理员账号
	if err := database.SeedAdmin(db, &cfg.Admin, logger); err != nil {
		logger.Fatal("初始管理员播种失败", zap.Error(err))
	}

	// 4. 连接 MongoDB GridFS（学生证照片与课程资料的二进制存储）
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	blobs, err := blobstore.New(startupCtx, &cfg.Mongo, logger)
	startupCancel()
	if err != nil {
		logger.Fatal("GridFS 连接失败", zap.Error(err))
	}

	// 5. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流功能将不可用", zap.Error(err))
		rdb = nil
	}

	// rdb 为 nil 时保持接口零值，注销降级为客户端丢弃 Token
	var blacklist service.TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}

	// 6. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, blobs, blacklist, logger)
	h := handler.NewHandler(svc, blobs)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 GridFS 连接
	if err := blobs.Close(ctx); err != nil {
		logger.Error("GridFS 关闭异常", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
