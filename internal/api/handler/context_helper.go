package handler

import (
	"net"
	"net/http"
	"strings"
)

// clientAddrHeaders 按优先级读取的代理头
var clientAddrHeaders = []string{"X-Forwarded-For", "X-Real-IP"}

// ClientAddr 提取客户端地址：
// X-Forwarded-For 的第一个条目 → X-Real-IP → 连接远端地址，都没有时返回空串。
// 代理头可被伪造，结果只用于审计记录。
func ClientAddr(r *http.Request) string {
	for _, h := range clientAddrHeaders {
		v := r.Header.Get(h)
		if v == "" {
			continue
		}
		if first := strings.TrimSpace(strings.Split(v, ",")[0]); first != "" {
			return first
		}
	}

	if r.RemoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
