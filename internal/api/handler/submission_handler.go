package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"formation-feedback/backend/config"
	"formation-feedback/backend/internal/dto"
	"formation-feedback/backend/internal/service"
	apperrors "formation-feedback/backend/pkg/errors"
	"formation-feedback/backend/pkg/metrics"
	"formation-feedback/backend/pkg/response"
)

// SubmissionHandler 表单提交 HTTP 处理器
type SubmissionHandler struct {
	cfg     *config.FormConfig
	svc     service.SubmissionService
	metrics metrics.Recorder
	logger  *zap.Logger
}

// NewSubmissionHandler 创建 SubmissionHandler
func NewSubmissionHandler(cfg *config.FormConfig, svc service.SubmissionService, rec metrics.Recorder, logger *zap.Logger) *SubmissionHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &SubmissionHandler{cfg: cfg, svc: svc, metrics: rec, logger: logger}
}

// Options 预检请求（CORS 中间件通常已提前返回）
// OPTIONS /api/submit-form
func (h *SubmissionHandler) Options(c *gin.Context) {
	response.NoContent(c)
}

// Health 配置探针，只报告密钥是否存在
// GET /api/submit-form
func (h *SubmissionHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Health())
}

// MethodNotAllowed 不支持的方法
func (h *SubmissionHandler) MethodNotAllowed(c *gin.Context) {
	h.logger.Warn("拒绝不支持的请求方法", zap.String("method", c.Request.Method))
	response.MethodNotAllowed(c, c.Request.Method)
}

// Submit 接收并保存一份表单
// POST /api/submit-form
func (h *SubmissionHandler) Submit(c *gin.Context) {
	raw, err := readBody(c.Request)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.metrics.Submission(metrics.OutcomeBadBody)
			h.logger.Warn("请求体超出上限", zap.Int64("limit", maxErr.Limit))
			response.RequestTooLarge(c)
			return
		}
		h.metrics.Submission(metrics.OutcomeBadBody)
		h.logger.Error("读取请求体失败", zap.Error(err))
		response.BadRequest(c, "Lecture du corps de requête impossible", err.Error())
		return
	}

	payload, err := decodePayload(c.ContentType(), raw)
	if err != nil {
		h.metrics.Submission(metrics.OutcomeBadBody)
		h.logger.Warn("请求体解析失败", zap.String("content_type", c.ContentType()), zap.Error(err))
		response.BadRequest(c, "JSON invalide", err.Error())
		return
	}

	meta := dto.SubmissionMeta{
		UserAgent:  c.GetHeader("User-Agent"),
		RemoteAddr: ClientAddr(c.Request),
	}

	result, err := h.svc.Submit(c.Request.Context(), payload, meta)
	if err != nil {
		h.handleSubmitError(c, err)
		return
	}

	if result.Bot {
		response.Bot(c)
		return
	}

	if h.cfg.SuccessMode == config.SuccessModeJSON {
		response.OK(c)
		return
	}
	response.Redirect(c, h.cfg.RedirectURL)
}

// readBody 读取完整请求体
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	return io.ReadAll(r.Body)
}

// decodePayload 按 Content-Type 解析请求体，默认按 JSON 处理
func decodePayload(contentType string, raw []byte) (dto.Payload, error) {
	if contentType == "application/x-www-form-urlencoded" {
		return dto.DecodeFormPayload(raw)
	}
	return dto.DecodeJSONPayload(raw)
}

// handleSubmitError 统一处理提交模块业务错误
func (h *SubmissionHandler) handleSubmitError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var serr *service.StoreError

	switch {
	case errors.As(err, &verr):
		msg := "Champs requis manquants : " + strings.Join(verr.Missing, ", ")
		response.MissingFields(c, msg, verr.Missing, verr.Received)
	case errors.Is(err, apperrors.ErrNotConfigured):
		h.logger.Error("服务端配置缺失", zap.Error(err))
		response.InternalError(c, "Configuration serveur incomplète", err.Error())
	case errors.As(err, &serr):
		h.logger.Error("Supabase 写入失败", zap.Error(err))
		response.InternalError(c, "Erreur d’insertion Supabase", serr.Error())
	default:
		h.logger.Error("提交处理异常", zap.Error(err))
		response.InternalError(c, "Erreur serveur", err.Error())
	}
}
