package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/RecoveryAshes/customsvn/internal/core"
	"github.com/RecoveryAshes/customsvn/internal/crawlers"
	"github.com/RecoveryAshes/customsvn/internal/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string
	headers    []string

	// 抓取参数
	targetURL      string
	headless       bool
	outputDir      string
	writeXLSX      bool
	snapshotDir    string
	validateConfig bool
)

// appConfig 合并命令行参数后的配置,在PersistentPreRunE中加载
var appConfig *core.Config

var rootCmd = &cobra.Command{
	Use:   "customsvn",
	Short: "越南海关统计数据抓取工具",
	Long: `customsvn - 越南海关(customs.gov.vn)进出口统计数据抓取工具

通过浏览器逐页切换门户的分页下拉框,解析每页数据表,
最终导出为 customs_data.json (可选 Excel)。

示例:
  # 使用默认门户地址抓取
  customsvn

  # 显示浏览器窗口并同时导出Excel
  customsvn --headless=false --xlsx

  # 保存每页HTML快照,之后可离线重放
  customsvn --snapshot-dir snapshots
  customsvn replay snapshots

  # 自定义请求头
  customsvn -H "User-Agent: MyBot/1.0" -H "Accept-Language: vi-VN"

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}
		applyFlagOverrides(cmd, config)

		logConfig := config.LogConfig()
		if verbose && logLevel == "" {
			logConfig.Level = "debug"
		}
		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}
		if path := config.ConfigFile(); path != "" {
			utils.Debugf("使用配置文件: %s", path)
		}

		appConfig = config
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ValidateFlags(appConfig); err != nil {
			return err
		}

		headerManager, err := core.NewHeaderManager(appConfig.Headers, headers)
		if err != nil {
			return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
		}

		if validateConfig {
			utils.Info("🔍 验证配置...")
			if err := headerManager.Validate(); err != nil {
				return fmt.Errorf("配置验证失败: %w", err)
			}
			safeHeaders := headerManager.GetSafeHeaders()
			utils.Info("✅ 配置验证通过!")
			utils.Infof("门户地址: %s", appConfig.Portal.URL)
			utils.Infof("当前有效的HTTP头部 (%d个):", len(safeHeaders))
			for name, value := range safeHeaders {
				utils.Infof("  %s: %s", name, value)
			}
			return nil
		}

		ctx, stop := signalContext()
		defer stop()

		portal := crawlers.NewRodPortal(appConfig.RodConfig(headerManager))
		defer portal.Close()

		if err := portal.Open(ctx); err != nil {
			return fmt.Errorf("打开门户失败: %w", err)
		}

		return runScraper(ctx, cmd, portal, appConfig.Portal.URL)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "customsvn %s\n", Version)
		fmt.Fprintf(cmd.OutOrStdout(), "构建时间: %s\n", BuildTime)
	},
}

// signalContext Ctrl+C / SIGTERM 取消抓取,已采集的数据仍会导出
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			utils.Warnf("收到中断信号: %v, 正在停止并导出已采集的数据...", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// runScraper 执行抓取并输出记录总数
func runScraper(ctx context.Context, cmd *cobra.Command, portal crawlers.Portal, sourceURL string) error {
	scraper := core.NewScraper(portal, core.ScraperOptions{
		OutputDir: appConfig.Output.Dir,
		WriteXLSX: appConfig.Output.XLSX,
		SourceURL: sourceURL,
		Out:       cmd.OutOrStdout(),
		Progress:  cmd.ErrOrStderr(),
	})

	result, err := scraper.Run(ctx)
	if err != nil {
		return fmt.Errorf("抓取失败: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n✨ 共 %d 条记录\n", result.TotalRecords)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式 (等同 --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "output", "输出目录")
	rootCmd.PersistentFlags().BoolVar(&writeXLSX, "xlsx", false, "同时导出Excel文件")

	rootCmd.Flags().StringVarP(&targetURL, "url", "u", "", "门户页面URL (默认使用配置文件或内置地址)")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "无头浏览器模式")
	rootCmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "保存每页HTML快照的目录")
	rootCmd.Flags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.Flags().BoolVar(&validateConfig, "validate-config", false, "仅验证配置和HTTP头部")

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
