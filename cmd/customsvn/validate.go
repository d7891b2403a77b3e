package main

import (
	"fmt"
	"net/url"

	"github.com/RecoveryAshes/customsvn/internal/core"
	"github.com/spf13/cobra"
)

// applyFlagOverrides 显式指定的命令行参数覆盖配置文件
func applyFlagOverrides(cmd *cobra.Command, config *core.Config) {
	flags := cmd.Flags()
	if flags.Changed("url") {
		if normalized, err := NormalizeURL(targetURL); err == nil {
			config.Portal.URL = normalized
		} else {
			config.Portal.URL = targetURL
		}
	}
	if flags.Changed("headless") {
		config.Portal.Headless = headless
	}
	if flags.Changed("output") {
		config.Output.Dir = outputDir
	}
	if flags.Changed("xlsx") {
		config.Output.XLSX = writeXLSX
	}
	if flags.Changed("snapshot-dir") {
		config.Output.SnapshotDir = snapshotDir
	}
	if logLevel != "" {
		config.Logging.Level = logLevel
	}
}

// ValidateFlags 验证合并后的运行参数
func ValidateFlags(config *core.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Output.SnapshotDir != "" && config.Output.SnapshotDir == config.Output.Dir {
		return fmt.Errorf("快照目录不能与输出目录相同: %s", config.Output.Dir)
	}
	return nil
}

// NormalizeURL 规范化URL,缺少协议时补全https
func NormalizeURL(urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" {
		parsed, err = url.Parse("https://" + urlStr)
		if err != nil {
			return "", err
		}
	}
	return parsed.String(), nil
}
