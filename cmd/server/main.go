package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"formation-feedback/backend/config"
	"formation-feedback/backend/internal/api/handler"
	"formation-feedback/backend/internal/api/router"
	"formation-feedback/backend/internal/repository"
	"formation-feedback/backend/internal/service"
	"formation-feedback/backend/pkg/database"
	applogger "formation-feedback/backend/pkg/logger"
	"formation-feedback/backend/pkg/mailer"
	"formation-feedback/backend/pkg/metrics"
	"formation-feedback/backend/pkg/supabase"
)

func main() {
	// 0. 本地开发时从 .env 读取环境变量（文件不存在则忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("FORM_CONFIG_FILE"))
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
		zap.String("profile", cfg.Form.Profile),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 存储通道：https:// 端点走 Supabase REST，其余按数据库连接串直连（惰性连接）
	storeLogger := applogger.Component(logger, applogger.ComponentStore)
	var (
		db   *database.Client
		repo *repository.Repository
	)
	if database.IsRESTEndpoint(cfg.Supabase.URL) {
		repo = repository.NewRESTRepository(supabase.NewClient(&cfg.Supabase, storeLogger))
		if cfg.Supabase.AutoMigrate {
			logger.Warn("REST 端点不支持迁移，已跳过 supabase.auto_migrate")
		}
	} else {
		db = database.NewClient(&cfg.Supabase, storeLogger)
		repo = repository.NewRepository(db)

		// 3.1 可选：启动时执行数据库迁移
		if cfg.Supabase.AutoMigrate {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := database.RunMigrations(ctx, db, logger)
			cancel()
			if err != nil {
				logger.Fatal("数据库迁移失败", zap.Error(err))
			}
		}
	}

	// 4. 邮件通知与指标
	mail := mailer.NewClient(&cfg.Mail, applogger.Component(logger, applogger.ComponentMailer))
	if cfg.Feature.Notify && !mail.Configured() {
		logger.Warn("RESEND_API_KEY / NOTIFY_TO 未配置，邮件通知已跳过")
	}
	mm := metrics.NewManager()

	// 5. 依赖注入: Repository → Service → Handler
	submitLogger := applogger.Component(logger, applogger.ComponentSubmitForm)
	svc, err := service.NewService(cfg, repo, mail, mm, submitLogger)
	if err != nil {
		logger.Fatal("初始化业务层失败", zap.Error(err))
	}
	h := handler.NewHandler(cfg, svc, mm, submitLogger)

	// 6. 初始化路由
	engine := router.Setup(cfg, h, mm, applogger.Component(logger, applogger.ComponentHTTP))

	// 7. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr), zap.String("form_path", cfg.Form.Path))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 8. 监听系统信号，优雅关闭
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
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("关闭数据库连接失败", zap.Error(err))
		}
	}

	logger.Info("服务器已关闭")
}
