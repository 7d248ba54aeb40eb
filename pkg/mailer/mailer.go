package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"formation-feedback/backend/config"
	apperrors "formation-feedback/backend/pkg/errors"
)

const sendTimeout = 10 * time.Second

// Message 一封待发送的通知邮件
type Message struct {
	Subject string
	Text    string
	HTML    string
	ReplyTo string
}

// Client 事务邮件客户端（Resend API，可通过 mail.api_url 指向兼容服务）
type Client struct {
	cfg    *config.MailConfig
	resend *resend.Client
	logger *zap.Logger
}

// NewClient 创建邮件客户端
func NewClient(cfg *config.MailConfig, logger *zap.Logger) *Client {
	rc := resend.NewCustomClient(&http.Client{Timeout: sendTimeout}, cfg.APIKey)
	if cfg.APIURL != "" {
		if base, err := url.Parse(strings.TrimRight(cfg.APIURL, "/") + "/"); err == nil {
			rc.BaseURL = base
		} else {
			logger.Warn("mail.api_url 无效，使用默认地址", zap.String("api_url", cfg.APIURL), zap.Error(err))
		}
	}
	return &Client{cfg: cfg, resend: rc, logger: logger}
}

// Configured API 密钥与收件人是否齐备
func (c *Client) Configured() bool {
	return c.cfg.Configured()
}

// Send 发送一封邮件，返回服务端分配的消息 ID
func (c *Client) Send(ctx context.Context, msg *Message) (string, error) {
	if !c.cfg.Configured() {
		return "", fmt.Errorf("RESEND_API_KEY / NOTIFY_TO: %w", apperrors.ErrNotConfigured)
	}

	sent, err := c.resend.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.cfg.From,
		To:      splitRecipients(c.cfg.To),
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return "", fmt.Errorf("调用邮件 API 失败: %w", err)
	}

	c.logger.Debug("通知邮件已发送", zap.String("id", sent.Id))
	return sent.Id, nil
}

// splitRecipients 支持逗号分隔的多个收件人
func splitRecipients(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
