package errors

import "errors"

// ErrNotConfigured 外部依赖所需的配置（地址、密钥）缺失
var ErrNotConfigured = errors.New("configuration manquante")
