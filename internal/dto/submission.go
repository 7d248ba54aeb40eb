package dto

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
)

// ── 表单提交 DTO ──

// Payload 解析后的表单内容，字段值保持原始 JSON 类型
type Payload map[string]interface{}

// DecodeJSONPayload 解析 JSON 请求体
// 解析失败返回错误；合法 JSON 但不是对象时视为空表单
func DecodeJSONPayload(raw []byte) (Payload, error) {
	if len(raw) == 0 {
		return Payload{}, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return Payload{}, nil
	}
	return Payload(obj), nil
}

// DecodeFormPayload 解析 application/x-www-form-urlencoded 请求体
// 同名字段多次出现时取第一个值
func DecodeFormPayload(raw []byte) (Payload, error) {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, err
	}
	p := make(Payload, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			p[k] = vs[0]
		}
	}
	return p, nil
}

// Keys 返回排序后的字段名
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String 以字符串形式返回字段值；缺失或 null 时 ok=false
func (p Payload) String(key string) (string, bool) {
	v, exists := p[key]
	if !exists || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return formatNumber(t), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t), true
		}
		return string(b), true
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// SubmissionMeta 请求来源信息
type SubmissionMeta struct {
	UserAgent  string
	RemoteAddr string
}

// SubmitResult 提交处理结果
type SubmitResult struct {
	Bot      bool   // 命中蜜罐，未入库
	Table    string // 写入的表名
	ID       int64  // 数据库生成的主键
	Notified bool   // 通知邮件是否发送成功
}

// HealthResponse GET 探针响应，只报告密钥是否存在
type HealthResponse struct {
	OK             bool   `json:"ok"`
	Runtime        string `json:"runtime"`
	HasSupabaseURL bool   `json:"hasSupabaseUrl"`
	HasServiceRole bool   `json:"hasServiceRole"`
}
