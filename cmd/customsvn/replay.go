package main

import (
	"fmt"

	"github.com/RecoveryAshes/customsvn/internal/crawlers"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <snapshot-dir>",
	Short: "从已保存的HTML快照离线重新解析",
	Long: `读取 --snapshot-dir 保存的 page_001.html、page_002.html ...
按与在线抓取相同的翻页和解析流程重新生成数据文件,无需启动浏览器。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		portal, err := crawlers.NewSnapshotPortal(dir,
			appConfig.Portal.PaginationSelector, appConfig.Portal.TableSelector)
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		if err := portal.Open(ctx); err != nil {
			return fmt.Errorf("打开快照失败: %w", err)
		}
		return runScraper(ctx, cmd, portal, "")
	},
}
