package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody 错误响应结构（与表单前端约定一致）
type ErrorBody struct {
	Error         string   `json:"error"`
	Details       string   `json:"details,omitempty"`
	Method        string   `json:"method,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
	ReceivedKeys  []string `json:"receivedKeys,omitempty"`
}

// OKBody 成功响应结构
type OKBody struct {
	OK  bool `json:"ok"`
	Bot bool `json:"bot,omitempty"`
}

// ── 成功响应 ──

// OK 200 {ok:true}
func OK(c *gin.Context) {
	c.JSON(http.StatusOK, OKBody{OK: true})
}

// Bot 200 {ok:true, bot:true}，对自动化流量静默受理
func Bot(c *gin.Context) {
	c.JSON(http.StatusOK, OKBody{OK: true, Bot: true})
}

// Redirect 302 跳转到感谢页
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// NoContent 204 无响应体
func NoContent(c *gin.Context) {
	c.AbortWithStatus(http.StatusNoContent)
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message})
}

// ErrorWithDetails 带详情的错误响应
func ErrorWithDetails(c *gin.Context, httpStatus int, message, details string) {
	c.JSON(httpStatus, ErrorBody{Error: message, Details: details})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message, details string) {
	ErrorWithDetails(c, http.StatusBadRequest, message, details)
}

// MissingFields 400，列出缺失的必填字段及实际收到的字段
func MissingFields(c *gin.Context, message string, missing, received []string) {
	c.JSON(http.StatusBadRequest, ErrorBody{
		Error:         message,
		MissingFields: missing,
		ReceivedKeys:  received,
	})
}

// MethodNotAllowed 405
func MethodNotAllowed(c *gin.Context, method string) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, ErrorBody{
		Error:  "Méthode non autorisée",
		Method: method,
	})
}

// RequestTooLarge 413
func RequestTooLarge(c *gin.Context) {
	Error(c, http.StatusRequestEntityTooLarge, "Requête trop volumineuse")
}

// InternalError 500
func InternalError(c *gin.Context, message, details string) {
	ErrorWithDetails(c, http.StatusInternalServerError, message, details)
}
