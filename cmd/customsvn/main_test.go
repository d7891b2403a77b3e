package main

import (
	"testing"
	"time"

	"github.com/RecoveryAshes/customsvn/internal/core"
)

func validConfig() *core.Config {
	return &core.Config{
		Portal: core.PortalConfig{
			URL:                core.DefaultPortalURL,
			NavigateTimeout:    time.Minute,
			PaginationSelector: "#slPages",
			TableSelector:      "table.list",
		},
		Output: core.OutputConfig{Dir: "output"},
	}
}

func TestValidateFlags(t *testing.T) {
	if err := ValidateFlags(validConfig()); err != nil {
		t.Fatalf("合法配置不应报错: %v", err)
	}

	badURL := validConfig()
	badURL.Portal.URL = "ftp://example.com"
	if err := ValidateFlags(badURL); err == nil {
		t.Error("非http协议应报错")
	}

	sameDir := validConfig()
	sameDir.Output.SnapshotDir = "output"
	if err := ValidateFlags(sameDir); err == nil {
		t.Error("快照目录与输出目录相同应报错")
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"www.customs.gov.vn/index.jsp?pageId=444", "https://www.customs.gov.vn/index.jsp?pageId=444"},
		{"http://example.com", "http://example.com"},
		{"https://example.com/a", "https://example.com/a"},
	}
	for _, tt := range tests {
		got, err := NormalizeURL(tt.in)
		if err != nil {
			t.Fatalf("NormalizeURL(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cmd := rootCmd
	if err := cmd.ParseFlags([]string{"--url", "example.com/stats", "--headless=false", "-o", "out", "--xlsx"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	config := validConfig()
	config.Portal.Headless = true
	applyFlagOverrides(cmd, config)

	if config.Portal.URL != "https://example.com/stats" {
		t.Errorf("URL = %s", config.Portal.URL)
	}
	if config.Portal.Headless {
		t.Error("--headless=false 应覆盖配置")
	}
	if config.Output.Dir != "out" || !config.Output.XLSX {
		t.Errorf("Output = %+v", config.Output)
	}
	if config.Output.SnapshotDir != "" {
		t.Error("未指定的参数不应覆盖配置")
	}
}
