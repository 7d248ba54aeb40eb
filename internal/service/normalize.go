package service

import (
	"math"
	"strconv"
	"strings"

	"formation-feedback/backend/internal/dto"
)

// ── 表单字段规范化 ──

// truthy 判断字段值是否为"真"：非空字符串、非零数字、true、对象或数组
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	default:
		return true
	}
}

// missingFields 返回缺失或去空白后为空的必填字段
func missingFields(p dto.Payload, required []string) []string {
	var missing []string
	for _, k := range required {
		v := p[k]
		if !truthy(v) {
			missing = append(missing, k)
			continue
		}
		if s, _ := p.String(k); strings.TrimSpace(s) == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

// identity 必填身份字段：转字符串并去空白
func identity(p dto.Payload, key string) string {
	s, _ := p.String(key)
	return strings.TrimSpace(s)
}

// textOrNull 自由文本：去空白后为空则为 NULL
func textOrNull(p dto.Payload, key string) *string {
	s, ok := p.String(key)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// textOrDefault 有默认值的文本字段
func textOrDefault(p dto.Payload, key, def string) *string {
	if s := textOrNull(p, key); s != nil {
		return s
	}
	if def == "" {
		return nil
	}
	return &def
}

// optionalText 来源信息：空串即 NULL，原样保存
func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ratingOrNull 评分字段：必须是有限整数且落在 [min, max] 闭区间，否则为 NULL
func ratingOrNull(p dto.Payload, key string, min, max int) *int {
	var f float64
	switch t := p[key].(type) {
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = n
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	if f < float64(min) || f > float64(max) {
		return nil
	}
	n := int(f)
	return &n
}

// otherRoleLabels "其他"职务的哨兵值（小写比较）
var otherRoleLabels = map[string]bool{"other": true, "autre": true}

// foldOtherRole 职务为"其他"且填写了具体职务时，用具体职务替换
// 返回最终职务以及是否发生了合并
func foldOtherRole(fonction string, autre *string) (string, bool) {
	if !otherRoleLabels[strings.ToLower(fonction)] || autre == nil {
		return fonction, false
	}
	return *autre, true
}
