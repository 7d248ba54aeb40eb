package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"formation-feedback/backend/pkg/response"
)

// Recovery 兜底捕获处理链中的 panic，返回 500 与诊断信息，进程继续服务
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("请求处理 panic",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", GetRequestID(c)),
					zap.Stack("stack"),
				)
				if !c.Writer.Written() {
					response.InternalError(c, "Erreur serveur", fmt.Sprint(r))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
