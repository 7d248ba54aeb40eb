package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS 跨域中间件
// 每个响应都无条件设置跨域头：来源为配置值（单一来源或 *）
func CORS(allowOrigin string, methods []string) gin.HandlerFunc {
	origin := strings.TrimRight(strings.TrimSpace(allowOrigin), "/")
	if origin == "" {
		origin = "*"
	}
	allowMethods := strings.Join(methods, ", ")

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", allowMethods)
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if origin != "*" {
			c.Header("Vary", "Origin")
		}

		// 预检请求：不论请求体内容，一律 204
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
