// Package supabase 通过 Supabase REST 端点（PostgREST）写入表单回答
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"
	"go.uber.org/zap"

	"formation-feedback/backend/config"
	apperrors "formation-feedback/backend/pkg/errors"
)

// restPath PostgREST 在 Supabase 项目下的挂载路径
const restPath = "/rest/v1"

// 由数据库生成的列，写入时不提交
var generatedColumns = []string{"id", "created_at"}

// Client Supabase REST 客户端
type Client struct {
	cfg    *config.SupabaseConfig
	rest   *postgrest.Client
	logger *zap.Logger
}

// NewClient 创建 REST 客户端；服务密钥同时作为 apikey 与 Bearer 令牌
func NewClient(cfg *config.SupabaseConfig, logger *zap.Logger) *Client {
	c := &Client{cfg: cfg, logger: logger}
	if !cfg.Configured() {
		logger.Warn("SUPABASE_URL / SUPABASE_SERVICE_ROLE_KEY 缺失，入库请求将返回 500")
		return c
	}
	c.rest = postgrest.NewClient(strings.TrimRight(cfg.URL, "/")+restPath, "public", map[string]string{
		"apikey":        cfg.ServiceRoleKey,
		"Authorization": "Bearer " + cfg.ServiceRoleKey,
	})
	return c
}

// Configured 端点与密钥是否齐备
func (c *Client) Configured() bool {
	return c.rest != nil
}

// Insert 向 table 写入一行，并用返回的表示回填 row（id、created_at）
// row 须为带 json 标签的结构体指针
func (c *Client) Insert(ctx context.Context, table string, row interface{}) error {
	if c.rest == nil {
		return fmt.Errorf("SUPABASE_URL / SUPABASE_SERVICE_ROLE_KEY: %w", apperrors.ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	values, err := columns(row)
	if err != nil {
		return err
	}

	body, _, err := c.rest.From(table).Insert(values, false, "", "representation", "").Execute()
	if err != nil {
		return err
	}

	var created []json.RawMessage
	if err := json.Unmarshal(body, &created); err != nil || len(created) == 0 {
		c.logger.Warn("REST 写入成功但未返回行", zap.String("table", table))
		return nil
	}
	if err := json.Unmarshal(created[0], row); err != nil {
		c.logger.Warn("解析 REST 返回行失败", zap.String("table", table), zap.Error(err))
	}
	return nil
}

// columns 将行转为列名到值的映射，去掉数据库生成的列
func columns(row interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("序列化表单回答失败: %w", err)
	}
	var values map[string]interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("序列化表单回答失败: %w", err)
	}
	for _, col := range generatedColumns {
		delete(values, col)
	}
	return values, nil
}
