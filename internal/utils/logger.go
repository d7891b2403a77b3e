package utils

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// MainLogFile 主日志文件名
	MainLogFile = "customs_scraper.log"
	// ErrorLogFile 错误日志文件名(仅error及以上)
	ErrorLogFile = "customs_scraper_error.log"
)

// Logger 全局日志器,InitLogger之前为零值(不输出任何内容)
var Logger zerolog.Logger

// LogConfig 日志配置
type LogConfig struct {
	Level      string // 日志级别: trace, debug, info, warn, error
	LogDir     string // 日志目录
	MaxSize    int    // 单个日志文件最大大小(MB)
	MaxBackups int    // 保留的旧日志文件数量
	MaxAge     int    // 保留天数
	Compress   bool   // 是否压缩旧日志

	// Console 控制台输出位置,默认os.Stdout;测试中可替换为缓冲区
	Console io.Writer
}

// DefaultLogConfig 默认日志配置,与配置文件logging段的默认值一致
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		LogDir:     "logs",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

// InitLogger 初始化日志系统
//
// 输出目标:
//  1. 彩色控制台: 翻页进度、警告和终止原因
//  2. customs_scraper.log: 所有级别,按大小轮转
//  3. customs_scraper_error.log: 仅error及以上,便于排查中途终止的抓取
//
// 级别无法解析或为空时使用info。
func InitLogger(config LogConfig) error {
	if err := os.MkdirAll(config.LogDir, 0755); err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(config.Level)
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	console := config.Console
	if console == nil {
		console = os.Stdout
	}

	// 两个文件共用同一套轮转参数
	rotate := func(name string) *lumberjack.Logger {
		return &lumberjack.Logger{
			Filename:   filepath.Join(config.LogDir, name),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		}
	}

	// MultiLevelWriter 把事件级别传给FilteredWriter.WriteLevel
	multiWriter := zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339},
		rotate(MainLogFile),
		&FilteredWriter{Writer: rotate(ErrorLogFile), MinLevel: zerolog.ErrorLevel},
	)

	Logger = zerolog.New(multiWriter).
		With().
		Timestamp().
		Logger()
	log.Logger = Logger

	Logger.Debug().
		Str("level", level.String()).
		Str("log_dir", config.LogDir).
		Msg("日志系统初始化完成")

	return nil
}

// FilteredWriter 仅写入指定级别及以上的日志
// 必须放在zerolog.MultiLevelWriter中使用,否则拿不到事件级别。
type FilteredWriter struct {
	Writer   io.Writer
	MinLevel zerolog.Level
}

// Write 实现io.Writer接口;不带级别的写入原样透传
func (w *FilteredWriter) Write(p []byte) (n int, err error) {
	return w.Writer.Write(p)
}

// WriteLevel 实现zerolog.LevelWriter接口,低于MinLevel的事件被丢弃
func (w *FilteredWriter) WriteLevel(level zerolog.Level, p []byte) (n int, err error) {
	if level >= w.MinLevel {
		return w.Writer.Write(p)
	}
	return len(p), nil
}

// Info 快捷方法: 信息日志
func Info(msg string) {
	Logger.Info().Msg(msg)
}

// Infof 快捷方法: 格式化信息日志
func Infof(format string, args ...interface{}) {
	Logger.Info().Msgf(format, args...)
}

// Error 快捷方法: 错误日志
func Error(err error, msg string) {
	Logger.Error().Err(err).Msg(msg)
}

// Errorf 快捷方法: 格式化错误日志
func Errorf(format string, args ...interface{}) {
	Logger.Error().Msgf(format, args...)
}

// Warn 快捷方法: 警告日志
func Warn(msg string) {
	Logger.Warn().Msg(msg)
}

// Warnf 快捷方法: 格式化警告日志
func Warnf(format string, args ...interface{}) {
	Logger.Warn().Msgf(format, args...)
}

// Debug 快捷方法: 调试日志
func Debug(msg string) {
	Logger.Debug().Msg(msg)
}

// Debugf 快捷方法: 格式化调试日志
func Debugf(format string, args ...interface{}) {
	Logger.Debug().Msgf(format, args...)
}
