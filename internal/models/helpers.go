package models

import (
	"fmt"
	"net/url"
)

// ValidateURL 验证门户入口URL
//
// 浏览器直接打开该地址,因此只接受http/https并要求带主机名;
// 查询参数(如 pageId=444)原样保留,不做规范化。
//
// 返回: URL非法时返回描述原因的错误
func ValidateURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("门户URL不能为空")
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("无效的门户URL %q: %w", urlStr, err)
	}

	// 浏览器会把 file://、javascript: 等当作本地操作,不是门户页面
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("门户URL必须是HTTP或HTTPS协议: %q", urlStr)
	}
	if parsed.Host == "" {
		return fmt.Errorf("门户URL缺少主机名: %q", urlStr)
	}
	return nil
}
