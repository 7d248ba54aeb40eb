package handler

import (
	"go.uber.org/zap"

	"formation-feedback/backend/config"
	"formation-feedback/backend/internal/service"
	"formation-feedback/backend/pkg/metrics"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Submission *SubmissionHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, rec metrics.Recorder, logger *zap.Logger) *Handler {
	return &Handler{
		Submission: NewSubmissionHandler(&cfg.Form, svc.Submission, rec, logger),
	}
}
