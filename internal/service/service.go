package service

import (
	"go.uber.org/zap"

	"formation-feedback/backend/config"
	"formation-feedback/backend/internal/repository"
	"formation-feedback/backend/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Submission SubmissionService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	notifier Notifier,
	rec metrics.Recorder,
	logger *zap.Logger,
) (*Service, error) {
	profile, err := NewFormProfile(&cfg.Form)
	if err != nil {
		return nil, err
	}
	return &Service{
		Submission: NewSubmissionService(cfg, profile, repo, notifier, rec, logger),
	}, nil
}
