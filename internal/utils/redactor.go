package utils

import (
	"net/http"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// SensitiveKeywords 名称中含有这些关键字的头部在日志中脱敏
var SensitiveKeywords = []string{
	"authorization",
	"cookie",
	"token",
	"key",
	"secret",
	"password",
	"credential",
}

// HeaderRedactor 头部脱敏器
type HeaderRedactor struct {
	keywords []string
}

// NewHeaderRedactor 创建头部脱敏器
func NewHeaderRedactor() *HeaderRedactor {
	return &HeaderRedactor{keywords: SensitiveKeywords}
}

// IsSensitive 按名称关键字判断是否敏感
func (hr *HeaderRedactor) IsSensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range hr.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// RedactValue 脱敏单个值: Bearer只留前缀,长值保留首尾4位,短值全部隐藏
func (hr *HeaderRedactor) RedactValue(name, value string) string {
	if !hr.IsSensitive(name) {
		return value
	}
	if strings.HasPrefix(value, "Bearer ") {
		return "Bearer ***"
	}
	if len(value) > 8 {
		return value[:4] + "***" + value[len(value)-4:]
	}
	return "***"
}

// Redact 返回脱敏后的头部(每个头部只取第一个值)
func (hr *HeaderRedactor) Redact(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for name, values := range headers {
		if len(values) == 0 {
			continue
		}
		result[name] = hr.RedactValue(name, values[0])
	}
	return result
}

// Dict 将脱敏后的头部转为zerolog字典,按名称排序
//
//	utils.Logger.Debug().Dict("headers", redactor.Dict(h)).Msg("...")
func (hr *HeaderRedactor) Dict(headers http.Header) *zerolog.Event {
	redacted := hr.Redact(headers)
	names := make([]string, 0, len(redacted))
	for name := range redacted {
		names = append(names, name)
	}
	sort.Strings(names)

	dict := zerolog.Dict()
	for _, name := range names {
		dict = dict.Str(name, redacted[name])
	}
	return dict
}
