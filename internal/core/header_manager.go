package core

import (
	"net/http"

	"github.com/RecoveryAshes/customsvn/internal/models"
	"github.com/RecoveryAshes/customsvn/internal/utils"
)

// DefaultUserAgent 默认User-Agent
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

// HeaderManager 管理浏览器额外请求头
// 优先级: 默认 < 配置文件 < 命令行。实现 models.HeaderProvider 接口。
type HeaderManager struct {
	defaults http.Header
	config   http.Header
	cli      http.Header

	validator *utils.HeaderValidator
	redactor  *utils.HeaderRedactor
}

// NewHeaderManager 创建头部管理器
// configHeaders 来自配置文件的 headers 段, cliHeaders 为 --header 传入的 "Name: Value" 列表。
func NewHeaderManager(configHeaders map[string]string, cliHeaders []string) (*HeaderManager, error) {
	cli, err := models.CliHeaders(cliHeaders).Parse()
	if err != nil {
		return nil, err
	}

	config := make(http.Header, len(configHeaders))
	for name, value := range configHeaders {
		config.Set(name, value)
	}

	return &HeaderManager{
		defaults:  defaultHeaders(),
		config:    config,
		cli:       cli,
		validator: utils.NewHeaderValidator(),
		redactor:  utils.NewHeaderRedactor(),
	}, nil
}

func defaultHeaders() http.Header {
	return http.Header{
		"User-Agent":      []string{DefaultUserAgent},
		"Accept-Language": []string{"vi-VN,vi;q=0.9,en;q=0.8"},
	}
}

// Validate 依次验证默认、配置文件和命令行头部
func (hm *HeaderManager) Validate() error {
	sources := []struct {
		name    string
		headers http.Header
	}{
		{"默认", hm.defaults},
		{"配置文件", hm.config},
		{"命令行", hm.cli},
	}
	for _, s := range sources {
		if err := hm.validator.Validate(s.headers); err != nil {
			utils.Errorf("%s头部验证失败: %v", s.name, err)
			return err
		}
	}
	return nil
}

// GetMergedHeaders 按优先级合并头部
func (hm *HeaderManager) GetMergedHeaders() http.Header {
	result := make(http.Header)
	for _, layer := range []http.Header{hm.defaults, hm.config, hm.cli} {
		for name, values := range layer {
			result[name] = values
		}
	}
	return result
}

// GetSafeHeaders 返回脱敏后的合并头部 (用于日志)
func (hm *HeaderManager) GetSafeHeaders() map[string]string {
	return hm.redactor.Redact(hm.GetMergedHeaders())
}

// GetHeaders 实现 HeaderProvider 接口
func (hm *HeaderManager) GetHeaders() (http.Header, error) {
	if err := hm.Validate(); err != nil {
		return nil, err
	}
	merged := hm.GetMergedHeaders()
	utils.Logger.Debug().Dict("headers", hm.redactor.Dict(merged)).Msg("应用HTTP头部")
	return merged, nil
}
