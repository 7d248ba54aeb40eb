package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Mail     MailConfig     `mapstructure:"mail"`
	Form     FormConfig     `mapstructure:"form"`
	Log      LogConfig      `mapstructure:"log"`
	Feature  FeatureConfig  `mapstructure:"feature"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	BodyLimit int64      `mapstructure:"body_limit"` // 请求体上限（字节）
	CORS      CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigin string `mapstructure:"allow_origin"` // 单一来源或 *
}

// SupabaseConfig 托管 PostgreSQL（Supabase）连接配置
// URL 为 postgres:// 连接串，ServiceRoleKey 作为连接口令注入
type SupabaseConfig struct {
	URL             string `mapstructure:"url"`
	ServiceRoleKey  string `mapstructure:"service_role_key"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大生命周期（分钟）
	AutoMigrate     bool   `mapstructure:"auto_migrate"`
	LogSQL          bool   `mapstructure:"log_sql"`
}

// Configured 连接串与凭据是否齐备
func (c *SupabaseConfig) Configured() bool {
	return c.URL != "" && c.ServiceRoleKey != ""
}

// MailConfig 事务邮件 API 配置
type MailConfig struct {
	APIURL string `mapstructure:"api_url"`
	APIKey string `mapstructure:"api_key"`
	From   string `mapstructure:"from"`
	To     string `mapstructure:"to"`
}

// Configured 邮件通知所需配置是否齐备
func (c *MailConfig) Configured() bool {
	return c.APIKey != "" && c.To != ""
}

// FormConfig 表单处理配置
type FormConfig struct {
	Path          string             `mapstructure:"path"`
	Profile       string             `mapstructure:"profile"`         // evaluation | attentes
	Table         string             `mapstructure:"table"`           // 为空时使用 profile 默认表名
	FoldOtherRole *bool              `mapstructure:"fold_other_role"` // 为空时使用 profile 默认策略
	SuccessMode   string             `mapstructure:"success_mode"`    // redirect | json
	RedirectURL   string             `mapstructure:"redirect_url"`
	HoneypotField string             `mapstructure:"honeypot_field"`
	Defaults      FormDefaultsConfig `mapstructure:"defaults"`
}

// FormDefaultsConfig 培训场次元数据默认值
type FormDefaultsConfig struct {
	Titre    string `mapstructure:"titre"`
	Modalite string `mapstructure:"modalite"`
	Debut    string `mapstructure:"debut"`
	Fin      string `mapstructure:"fin"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FeatureConfig 功能开关配置
type FeatureConfig struct {
	HealthProbe bool `mapstructure:"health_probe"` // GET 表单路由返回配置探针
	Notify      bool `mapstructure:"notify"`       // 入库成功后发送邮件通知
}

const (
	SuccessModeRedirect = "redirect"
	SuccessModeJSON     = "json"
)

// legacyEnv 沿用部署平台上已有的环境变量名
var legacyEnv = map[string]string{
	"supabase.url":              "SUPABASE_URL",
	"supabase.service_role_key": "SUPABASE_SERVICE_ROLE_KEY",
	"server.cors.allow_origin":  "ALLOWED_ORIGIN",
	"mail.api_key":              "RESEND_API_KEY",
	"mail.to":                   "NOTIFY_TO",
	"mail.from":                 "NOTIFY_FROM",
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origin", "*")

	v.SetDefault("supabase.url", "")
	v.SetDefault("supabase.service_role_key", "")
	v.SetDefault("supabase.max_open_conns", 5)
	v.SetDefault("supabase.max_idle_conns", 2)
	v.SetDefault("supabase.conn_max_lifetime", 30)
	v.SetDefault("supabase.auto_migrate", false)
	v.SetDefault("supabase.log_sql", false)

	v.SetDefault("mail.api_url", "https://api.resend.com")
	v.SetDefault("mail.api_key", "")
	v.SetDefault("mail.from", "Formulaire <onboarding@resend.dev>")
	v.SetDefault("mail.to", "")

	v.SetDefault("form.path", "/api/submit-form")
	v.SetDefault("form.profile", "evaluation")
	v.SetDefault("form.table", "")
	v.SetDefault("form.success_mode", SuccessModeRedirect)
	v.SetDefault("form.redirect_url", "/thank-you.html")
	v.SetDefault("form.honeypot_field", "bot-field")
	v.SetDefault("form.defaults.titre", "Fiscalité minière – Sycamore")
	v.SetDefault("form.defaults.modalite", "En ligne")
	v.SetDefault("form.defaults.debut", "2025-10-20")
	v.SetDefault("form.defaults.fin", "2025-10-24")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("feature.health_probe", true)
	v.SetDefault("feature.notify", true)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("FORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "FORM_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("绑定环境变量 %s 失败: %w", env, err)
		}
	}
	// fold_other_role 无默认值，需显式绑定才能被 Unmarshal 看到
	if err := v.BindEnv("form.fold_other_role"); err != nil {
		return nil, fmt.Errorf("绑定环境变量失败: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验结构性配置项
// 密钥缺失不在此处拦截：由请求处理阶段返回 500
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Server.BodyLimit <= 0 {
		return fmt.Errorf("配置校验失败: server.body_limit 必须大于 0")
	}
	switch c.Form.Profile {
	case "evaluation", "attentes":
	default:
		return fmt.Errorf("配置校验失败: form.profile 不支持 %q", c.Form.Profile)
	}
	switch c.Form.SuccessMode {
	case SuccessModeRedirect, SuccessModeJSON:
	default:
		return fmt.Errorf("配置校验失败: form.success_mode 不支持 %q", c.Form.SuccessMode)
	}
	if !strings.HasPrefix(c.Form.Path, "/") {
		return fmt.Errorf("配置校验失败: form.path 必须以 / 开头")
	}
	return nil
}
