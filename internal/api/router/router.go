package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"formation-feedback/backend/config"
	"formation-feedback/backend/internal/api/handler"
	"formation-feedback/backend/internal/api/middleware"
	"formation-feedback/backend/pkg/metrics"
)

// Setup 初始化并返回 Gin 路由引擎
// mm 为 nil 时不挂载 /metrics
func Setup(cfg *config.Config, h *handler.Handler, mm *metrics.Manager, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.HandleMethodNotAllowed = true

	methods := []string{http.MethodPost, http.MethodOptions}
	if cfg.Feature.HealthProbe {
		methods = append(methods, http.MethodGet)
	}

	var rec middleware.HTTPRecorder
	if mm != nil {
		rec = mm
	}

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, rec))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigin, methods))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	r.NoMethod(h.Submission.MethodNotAllowed)

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if mm != nil {
		r.GET("/metrics", gin.WrapH(mm.Handler()))
	}

	// ── 表单提交 ──
	form := r.Group(cfg.Form.Path)
	{
		form.OPTIONS("", h.Submission.Options)
		form.POST("", h.Submission.Submit)
		if cfg.Feature.HealthProbe {
			form.GET("", h.Submission.Health)
		}
	}

	return r
}
