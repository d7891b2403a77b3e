package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RecoveryAshes/customsvn/internal/crawlers"
	"github.com/RecoveryAshes/customsvn/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	// 在空目录中搜索,确保不会读到仓库里的配置文件
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Portal.URL != DefaultPortalURL {
		t.Errorf("Portal.URL = %s", cfg.Portal.URL)
	}
	if !cfg.Portal.Headless {
		t.Error("默认应为无头模式")
	}
	if cfg.Portal.NavigateTimeout != 60*time.Second {
		t.Errorf("NavigateTimeout = %v", cfg.Portal.NavigateTimeout)
	}
	if cfg.Portal.PaginationSelector != crawlers.DefaultPaginationSelector ||
		cfg.Portal.TableSelector != crawlers.DefaultTableSelector {
		t.Errorf("选择器默认值错误: %+v", cfg.Portal)
	}
	if cfg.Output.Dir != "output" || cfg.Output.XLSX {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if cfg.ConfigFile() != "" {
		t.Errorf("未找到配置文件时ConfigFile()应为空, got %s", cfg.ConfigFile())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("默认配置应合法: %v", err)
	}
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
portal:
  url: https://example.com/stats
  headless: false
  navigate_timeout: 15s
  table_selector: "#data"
output:
  dir: out
  xlsx: true
logging:
  level: debug
  rotation:
    max_size: 5
headers:
  Referer: https://example.com/
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Portal.URL != "https://example.com/stats" || cfg.Portal.Headless {
		t.Errorf("Portal = %+v", cfg.Portal)
	}
	if cfg.Portal.NavigateTimeout != 15*time.Second {
		t.Errorf("NavigateTimeout = %v", cfg.Portal.NavigateTimeout)
	}
	if cfg.Portal.TableSelector != "#data" || cfg.Portal.PaginationSelector != crawlers.DefaultPaginationSelector {
		t.Errorf("选择器 = %+v", cfg.Portal)
	}
	if !cfg.Output.XLSX || cfg.Output.Dir != "out" {
		t.Errorf("Output = %+v", cfg.Output)
	}
	// viper的键不区分大小写,统一为小写
	if cfg.Headers["referer"] != "https://example.com/" {
		t.Errorf("Headers = %v", cfg.Headers)
	}

	lc := cfg.LogConfig()
	if lc.Level != "debug" || lc.MaxSize != 5 || lc.MaxBackups != 3 {
		t.Errorf("LogConfig = %+v", lc)
	}

	rc := cfg.RodConfig(nil)
	if rc.URL != cfg.Portal.URL || rc.TableSelector != "#data" || rc.NavigateTimeout != 15*time.Second {
		t.Errorf("RodConfig = %+v", rc)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "portal: [unclosed")

	_, err := LoadConfig(path)
	var ce *models.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("期望ConfigError, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Portal: PortalConfig{
				URL:                DefaultPortalURL,
				NavigateTimeout:    time.Second,
				PaginationSelector: "#slPages",
				TableSelector:      "table.list",
			},
			Output: OutputConfig{Dir: "output"},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"非http协议", func(c *Config) { c.Portal.URL = "ftp://example.com" }},
		{"缺少主机名", func(c *Config) { c.Portal.URL = "https://" }},
		{"空分页选择器", func(c *Config) { c.Portal.PaginationSelector = "" }},
		{"空表格选择器", func(c *Config) { c.Portal.TableSelector = "" }},
		{"非正超时", func(c *Config) { c.Portal.NavigateTimeout = 0 }},
		{"空输出目录", func(c *Config) { c.Output.Dir = "" }},
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("基准配置应合法: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			var ce *models.ConfigError
			if err := c.Validate(); !errors.As(err, &ce) {
				t.Errorf("期望ConfigError, got %v", err)
			}
		})
	}
}
