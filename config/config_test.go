package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdirTemp 切换到空目录，避免读到仓库内的配置文件
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.CORS.AllowOrigin != "*" || cfg.Server.BodyLimit != 1<<20 {
		t.Errorf("服务器默认值不符: %+v", cfg.Server)
	}
	if cfg.Form.Path != "/api/submit-form" || cfg.Form.Profile != "evaluation" || cfg.Form.SuccessMode != SuccessModeRedirect {
		t.Errorf("表单默认值不符: %+v", cfg.Form)
	}
	if cfg.Form.FoldOtherRole != nil {
		t.Error("fold_other_role 未设置时应为 nil")
	}
	if cfg.Form.Defaults.Titre != "Fiscalité minière – Sycamore" || cfg.Form.Defaults.Debut != "2025-10-20" {
		t.Errorf("场次默认值不符: %+v", cfg.Form.Defaults)
	}
	if cfg.Supabase.Configured() || cfg.Mail.Configured() {
		t.Error("密钥没有默认值")
	}
	if !cfg.Feature.HealthProbe || !cfg.Feature.Notify {
		t.Errorf("功能开关默认值不符: %+v", cfg.Feature)
	}
}

func TestLoad_LegacyEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SUPABASE_URL", "postgres://postgres@db.example.co:5432/postgres")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "srk")
	t.Setenv("ALLOWED_ORIGIN", "https://formation.example.org")
	t.Setenv("RESEND_API_KEY", "re_123")
	t.Setenv("NOTIFY_TO", "rh@example.org")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if !cfg.Supabase.Configured() || cfg.Supabase.ServiceRoleKey != "srk" {
		t.Errorf("Supabase 环境变量未生效: %+v", cfg.Supabase)
	}
	if cfg.Server.CORS.AllowOrigin != "https://formation.example.org" {
		t.Errorf("ALLOWED_ORIGIN 未生效: %s", cfg.Server.CORS.AllowOrigin)
	}
	if !cfg.Mail.Configured() {
		t.Errorf("邮件环境变量未生效: %+v", cfg.Mail)
	}
}

func TestLoad_PrefixedEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FORM_FORM_PROFILE", "attentes")
	t.Setenv("FORM_FORM_SUCCESS_MODE", "json")
	t.Setenv("FORM_FORM_FOLD_OTHER_ROLE", "false")
	t.Setenv("FORM_SERVER_PORT", "9090")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Form.Profile != "attentes" || cfg.Form.SuccessMode != SuccessModeJSON || cfg.Server.Port != 9090 {
		t.Errorf("前缀环境变量未生效: %+v", cfg)
	}
	if cfg.Form.FoldOtherRole == nil || *cfg.Form.FoldOtherRole {
		t.Error("FORM_FORM_FOLD_OTHER_ROLE=false 未生效")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("form:\n  table: reponses_formation\n  redirect_url: /merci.html\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Form.Table != "reponses_formation" || cfg.Form.RedirectURL != "/merci.html" || cfg.Log.Level != "debug" {
		t.Errorf("配置文件未生效: %+v", cfg.Form)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080, BodyLimit: 1024},
			Form:   FormConfig{Path: "/api/submit-form", Profile: "evaluation", SuccessMode: SuccessModeRedirect},
		}
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}

	cases := map[string]func(*Config){
		"端口越界":      func(c *Config) { c.Server.Port = 70000 },
		"请求体上限为0":   func(c *Config) { c.Server.BodyLimit = 0 },
		"未知表单类型":    func(c *Config) { c.Form.Profile = "quiz" },
		"未知成功模式":    func(c *Config) { c.Form.SuccessMode = "html" },
		"路径缺少前导斜杠": func(c *Config) { c.Form.Path = "api/submit-form" },
	}
	for name, mutate := range cases {
		c := base()
		mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: 期望校验失败", name)
		}
	}
}
