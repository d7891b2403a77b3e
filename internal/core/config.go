package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RecoveryAshes/customsvn/internal/crawlers"
	"github.com/RecoveryAshes/customsvn/internal/models"
	"github.com/RecoveryAshes/customsvn/internal/utils"
	"github.com/spf13/viper"
)

// DefaultPortalURL 海关统计数据发布页面
const DefaultPortalURL = "https://www.customs.gov.vn/index.jsp?pageId=444"

// Config 应用程序配置
type Config struct {
	Portal  PortalConfig      `mapstructure:"portal"`
	Output  OutputConfig      `mapstructure:"output"`
	Logging LoggingConfig     `mapstructure:"logging"`
	Headers map[string]string `mapstructure:"headers"`

	// configFile 实际读取的配置文件,未找到时为空
	configFile string
}

// PortalConfig 门户配置
type PortalConfig struct {
	URL                string        `mapstructure:"url"`
	Headless           bool          `mapstructure:"headless"`
	BrowserBin         string        `mapstructure:"browser_bin"`
	NavigateTimeout    time.Duration `mapstructure:"navigate_timeout"`
	PaginationSelector string        `mapstructure:"pagination_selector"`
	TableSelector      string        `mapstructure:"table_selector"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	Dir         string `mapstructure:"dir"`
	XLSX        bool   `mapstructure:"xlsx"`
	SnapshotDir string `mapstructure:"snapshot_dir"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// LoadConfig 加载配置文件
// configPath为空时依次搜索 ./configs、. 和 ~/.customsvn 下的 config.yaml,
// 都不存在则使用默认值。
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".customsvn"))
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &models.ConfigError{FilePath: configPath, Cause: err}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, &models.ConfigError{FilePath: v.ConfigFileUsed(), Cause: fmt.Errorf("解析配置失败: %w", err)}
	}
	config.configFile = v.ConfigFileUsed()

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	v.SetDefault("portal.url", DefaultPortalURL)
	v.SetDefault("portal.headless", true)
	v.SetDefault("portal.browser_bin", "")
	v.SetDefault("portal.navigate_timeout", "60s")
	v.SetDefault("portal.pagination_selector", crawlers.DefaultPaginationSelector)
	v.SetDefault("portal.table_selector", crawlers.DefaultTableSelector)

	v.SetDefault("output.dir", "output")
	v.SetDefault("output.xlsx", false)
	v.SetDefault("output.snapshot_dir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)
}

// ConfigFile 实际使用的配置文件路径
func (c *Config) ConfigFile() string {
	return c.configFile
}

// Validate 检查配置的合法性
func (c *Config) Validate() error {
	if err := models.ValidateURL(c.Portal.URL); err != nil {
		return c.invalid(fmt.Errorf("portal.url: %w", err))
	}
	if c.Portal.PaginationSelector == "" {
		return c.invalid(errors.New("portal.pagination_selector 不能为空"))
	}
	if c.Portal.TableSelector == "" {
		return c.invalid(errors.New("portal.table_selector 不能为空"))
	}
	if c.Portal.NavigateTimeout <= 0 {
		return c.invalid(fmt.Errorf("portal.navigate_timeout 必须为正数: %s", c.Portal.NavigateTimeout))
	}
	if c.Output.Dir == "" {
		return c.invalid(errors.New("output.dir 不能为空"))
	}
	return nil
}

func (c *Config) invalid(cause error) error {
	return &models.ConfigError{FilePath: c.configFile, Cause: cause}
}

// LogConfig 转换为日志配置
func (c *Config) LogConfig() utils.LogConfig {
	return utils.LogConfig{
		Level:      c.Logging.Level,
		LogDir:     c.Logging.LogDir,
		MaxSize:    c.Logging.Rotation.MaxSize,
		MaxBackups: c.Logging.Rotation.MaxBackups,
		MaxAge:     c.Logging.Rotation.MaxAge,
		Compress:   c.Logging.Rotation.Compress,
	}
}

// RodConfig 转换为浏览器门户配置
func (c *Config) RodConfig(headers models.HeaderProvider) crawlers.RodConfig {
	return crawlers.RodConfig{
		URL:                c.Portal.URL,
		Headless:           c.Portal.Headless,
		BrowserBin:         c.Portal.BrowserBin,
		NavigateTimeout:    c.Portal.NavigateTimeout,
		PaginationSelector: c.Portal.PaginationSelector,
		TableSelector:      c.Portal.TableSelector,
		SnapshotDir:        c.Output.SnapshotDir,
		Headers:            headers,
	}
}
