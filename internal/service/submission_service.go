package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"formation-feedback/backend/config"
	"formation-feedback/backend/internal/dto"
	"formation-feedback/backend/internal/model"
	"formation-feedback/backend/internal/repository"
	apperrors "formation-feedback/backend/pkg/errors"
	"formation-feedback/backend/pkg/mailer"
	"formation-feedback/backend/pkg/metrics"
)

// ── 提交模块业务错误 ──

// ValidationError 必填字段缺失
type ValidationError struct {
	Missing  []string
	Received []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("champs requis manquants: %v", e.Missing)
}

// StoreError 存储写入失败，保留上游错误信息
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// Notifier 邮件通知发送接口
type Notifier interface {
	Configured() bool
	Send(ctx context.Context, msg *mailer.Message) (string, error)
}

// SubmissionService 表单提交业务接口
type SubmissionService interface {
	Submit(ctx context.Context, payload dto.Payload, meta dto.SubmissionMeta) (*dto.SubmitResult, error)
	Health() *dto.HealthResponse
}

type submissionService struct {
	cfg      *config.Config
	profile  *FormProfile
	repo     *repository.Repository
	notifier Notifier
	metrics  metrics.Recorder
	logger   *zap.Logger
}

// NewSubmissionService 创建 SubmissionService 实例
// notifier 可为 nil，表示不发送通知
func NewSubmissionService(
	cfg *config.Config,
	profile *FormProfile,
	repo *repository.Repository,
	notifier Notifier,
	rec metrics.Recorder,
	logger *zap.Logger,
) SubmissionService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &submissionService{
		cfg:      cfg,
		profile:  profile,
		repo:     repo,
		notifier: notifier,
		metrics:  rec,
		logger:   logger,
	}
}

// ────────────────────── Submit ──────────────────────

func (s *submissionService) Submit(ctx context.Context, payload dto.Payload, meta dto.SubmissionMeta) (*dto.SubmitResult, error) {
	// 蜜罐命中：静默受理，不入库、不通知
	if truthy(payload[s.cfg.Form.HoneypotField]) {
		s.metrics.Submission(metrics.OutcomeBot)
		s.logger.Info("蜜罐字段命中，按自动化流量处理", zap.String("remote_addr", meta.RemoteAddr))
		return &dto.SubmitResult{Bot: true}, nil
	}

	if missing := missingFields(payload, s.profile.Required); len(missing) > 0 {
		s.metrics.Submission(metrics.OutcomeInvalid)
		s.logger.Warn("必填字段缺失", zap.Strings("missing", missing))
		return nil, &ValidationError{Missing: missing, Received: payload.Keys()}
	}

	row := s.profile.Build(payload, meta)

	if !s.repo.Submission.Configured() {
		s.metrics.Submission(metrics.OutcomeNoConfig)
		s.logger.Error("SUPABASE_URL / SUPABASE_SERVICE_ROLE_KEY 未配置，放弃入库")
		return nil, fmt.Errorf("SUPABASE_URL / SUPABASE_SERVICE_ROLE_KEY: %w", apperrors.ErrNotConfigured)
	}

	start := time.Now()
	err := s.repo.Submission.Insert(ctx, s.profile.Table, row)
	s.metrics.StoreLatency(time.Since(start))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotConfigured) {
			s.metrics.Submission(metrics.OutcomeNoConfig)
			return nil, err
		}
		s.metrics.Submission(metrics.OutcomeStoreErr)
		s.logger.Error("写入表单回答失败", zap.String("table", s.profile.Table), zap.Error(err))
		return nil, &StoreError{Err: err}
	}
	s.metrics.Submission(metrics.OutcomePersisted)

	result := &dto.SubmitResult{Table: s.profile.Table, ID: row.PrimaryKey()}
	s.logger.Info("表单回答已入库", zap.String("table", s.profile.Table), zap.Int64("id", result.ID))

	// 入库成功后尽力发送通知，失败只记日志
	result.Notified = s.notify(context.WithoutCancel(ctx), row)

	return result, nil
}

func (s *submissionService) notify(ctx context.Context, row model.Row) bool {
	if !s.cfg.Feature.Notify || s.notifier == nil || !s.notifier.Configured() {
		return false
	}

	msg, err := renderNotification(s.profile, s.profile.Table, row)
	if err != nil {
		s.metrics.Notification(false)
		s.logger.Error("通知邮件渲染失败", zap.Error(err))
		return false
	}
	if _, err := s.notifier.Send(ctx, msg); err != nil {
		s.metrics.Notification(false)
		s.logger.Error("通知邮件发送失败", zap.Error(err))
		return false
	}
	s.metrics.Notification(true)
	return true
}

// ────────────────────── Health ──────────────────────

func (s *submissionService) Health() *dto.HealthResponse {
	return &dto.HealthResponse{
		OK:             true,
		Runtime:        runtime.Version(),
		HasSupabaseURL: s.cfg.Supabase.URL != "",
		HasServiceRole: s.cfg.Supabase.ServiceRoleKey != "",
	}
}
