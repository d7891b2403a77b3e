package utils

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/RecoveryAshes/customsvn/internal/models"
)

// MaxHeaderValueLength 头部值最大长度 (8KB)
const MaxHeaderValueLength = 8192

// BrowserManagedHeaders 由Chrome自行维护的头部,通过CDP覆盖会被忽略或导致请求失败
var BrowserManagedHeaders = []string{
	"Host",
	"Content-Length",
	"Transfer-Encoding",
	"Connection",
	"Cookie",
	"Upgrade",
}

var (
	headerNameRe  = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	headerValueRe = regexp.MustCompile(`^[\x20-\x7E\t]*$`)
)

// HeaderValidator 校验将要注入浏览器标签页的额外头部
type HeaderValidator struct {
	managed map[string]struct{}
}

// NewHeaderValidator 创建头部校验器
func NewHeaderValidator() *HeaderValidator {
	managed := make(map[string]struct{}, len(BrowserManagedHeaders))
	for _, h := range BrowserManagedHeaders {
		managed[strings.ToLower(h)] = struct{}{}
	}
	return &HeaderValidator{managed: managed}
}

// IsBrowserManaged 头部是否由浏览器维护
func (hv *HeaderValidator) IsBrowserManaged(name string) bool {
	_, ok := hv.managed[strings.ToLower(name)]
	return ok
}

// ValidateHeader 校验单个头部
func (hv *HeaderValidator) ValidateHeader(name, value string) error {
	switch {
	case name == "":
		return &models.ValidationError{Field: "name", HeaderName: name, Reason: "头部名称不能为空"}
	case !headerNameRe.MatchString(name):
		return &models.ValidationError{Field: "name", HeaderName: name, Reason: "头部名称包含非法字符 (仅允许字母、数字和连字符)"}
	case hv.IsBrowserManaged(name):
		return &models.ValidationError{Field: "name", HeaderName: name, Reason: "此头部由浏览器维护,不允许自定义"}
	case len(value) > MaxHeaderValueLength:
		return &models.ValidationError{
			Field:      "value",
			HeaderName: name,
			Reason:     fmt.Sprintf("头部值过长: %d 字节 (最大 %d)", len(value), MaxHeaderValueLength),
		}
	case !headerValueRe.MatchString(value):
		return &models.ValidationError{Field: "value", HeaderName: name, Reason: "头部值包含非法字符 (仅允许可打印ASCII字符)"}
	}
	return nil
}

// Validate 校验全部头部,返回第一个错误
func (hv *HeaderValidator) Validate(headers http.Header) error {
	for name, values := range headers {
		for _, value := range values {
			if err := hv.ValidateHeader(name, value); err != nil {
				return err
			}
		}
	}
	return nil
}
