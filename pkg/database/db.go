package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"formation-feedback/backend/config"
	apperrors "formation-feedback/backend/pkg/errors"
)

// Opener 根据 DSN 打开 gorm 连接，测试中可替换为 sqlite
type Opener func(dsn string) gorm.Dialector

// Client 进程级数据库句柄
// 首次使用时建立连接，之后只读复用；句柄发布由互斥锁保护，
// 失败时不缓存错误，下一次请求会重新尝试。
type Client struct {
	cfg       *config.SupabaseConfig
	dialector Opener
	logger    *zap.Logger

	mu sync.Mutex
	db *gorm.DB
}

// NewClient 创建惰性数据库客户端（不会立即连接）
func NewClient(cfg *config.SupabaseConfig, logger *zap.Logger) *Client {
	return NewClientWithOpener(cfg, postgres.Open, logger)
}

// NewClientWithOpener 使用自定义 Dialector 创建客户端
func NewClientWithOpener(cfg *config.SupabaseConfig, open Opener, logger *zap.Logger) *Client {
	if !cfg.Configured() {
		logger.Warn("SUPABASE_URL / SUPABASE_SERVICE_ROLE_KEY 缺失，入库请求将返回 500")
	}
	return &Client{cfg: cfg, dialector: open, logger: logger}
}

// Configured 连接配置是否齐备
func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// DB 返回共享的 gorm 句柄，必要时建立连接
// 连接在锁外建立并以请求 ctx 探活，先完成者发布，其余丢弃
func (c *Client) DB(ctx context.Context) (*gorm.DB, error) {
	if !c.cfg.Configured() {
		return nil, fmt.Errorf("SUPABASE_URL / SUPABASE_SERVICE_ROLE_KEY: %w", apperrors.ErrNotConfigured)
	}

	c.mu.Lock()
	db := c.db
	c.mu.Unlock()
	if db != nil {
		return db.WithContext(ctx), nil
	}

	db, err := c.open(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		return c.db.WithContext(ctx), nil
	}
	c.db = db
	c.logger.Info("数据库连接已建立", zap.String("host", hostOf(c.cfg.URL)))

	return db.WithContext(ctx), nil
}

func (c *Client) open(ctx context.Context) (*gorm.DB, error) {
	dsn, err := BuildDSN(c.cfg.URL, c.cfg.ServiceRoleKey)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if c.cfg.LogSQL {
		level = gormlogger.Info
	}
	db, err := gorm.Open(c.dialector(dsn), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(level),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	maxOpen := c.cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 5
	}
	maxIdle := c.cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 2
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if c.cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(c.cfg.ConnMaxLifetime) * time.Minute)
	}
	return db, nil
}

// Close 关闭底层连接池（未连接时为空操作）
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.db = nil
	return sqlDB.Close()
}

// BuildDSN 将服务密钥作为口令注入连接串
// postgres:// URL 改写 userinfo；关键字形式追加 password=；
// http(s) 端点走 REST 通道，不能作为数据库连接串
func BuildDSN(rawURL, key string) (string, error) {
	switch {
	case IsRESTEndpoint(rawURL):
		return "", fmt.Errorf("SUPABASE_URL 为 REST 端点，不能作为数据库连接串: %w", apperrors.ErrNotConfigured)
	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("解析 SUPABASE_URL 失败: %w", err)
		}
		user := "postgres"
		if u.User != nil && u.User.Username() != "" {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, key)
		return u.String(), nil
	case strings.Contains(rawURL, "="):
		// 同名关键字以后出现者为准
		return strings.TrimSpace(rawURL) + " password=" + quoteKeyword(key), nil
	default:
		return "", fmt.Errorf("无法识别的 SUPABASE_URL 格式: %w", apperrors.ErrNotConfigured)
	}
}

// IsRESTEndpoint 判断地址是否为 Supabase HTTP 端点（https://<ref>.supabase.co）
func IsRESTEndpoint(rawURL string) bool {
	return strings.HasPrefix(rawURL, "https://") || strings.HasPrefix(rawURL, "http://")
}

func quoteKeyword(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func hostOf(dsn string) string {
	if !strings.Contains(dsn, "://") {
		for _, kv := range strings.Fields(dsn) {
			if strings.HasPrefix(kv, "host=") {
				return strings.TrimPrefix(kv, "host=")
			}
		}
		return "-"
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return "-"
	}
	return u.Host
}
