package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/RecoveryAshes/customsvn/internal/crawlers"
	"github.com/RecoveryAshes/customsvn/internal/models"
	"github.com/RecoveryAshes/customsvn/internal/utils"
	"github.com/schollz/progressbar/v3"
)

// ScraperOptions 抓取任务选项
type ScraperOptions struct {
	OutputDir string
	WriteXLSX bool
	SourceURL string // 仅用于报告
	Timing    crawlers.Timing

	// Out 完成摘要的输出位置,默认os.Stdout
	Out io.Writer
	// Progress 进度条的输出位置,为nil时不显示进度条
	Progress io.Writer
}

// Scraper 逐页抓取门户数据表并导出
// 分页是单一的共享状态,所有页面在同一goroutine中严格按顺序处理。
type Scraper struct {
	portal    crawlers.Portal
	navigator *crawlers.Navigator
	extractor *crawlers.Extractor
	exporter  *utils.Exporter
	opts      ScraperOptions
}

// NewScraper 创建抓取器
func NewScraper(portal crawlers.Portal, opts ScraperOptions) *Scraper {
	if opts.Timing == (crawlers.Timing{}) {
		opts.Timing = crawlers.DefaultTiming()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "output"
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	return &Scraper{
		portal:    portal,
		navigator: crawlers.NewNavigator(portal, opts.Timing),
		extractor: crawlers.NewExtractor(portal),
		exporter:  utils.NewExporter(opts.OutputDir, opts.WriteXLSX),
		opts:      opts,
	}
}

// IsProgressCheckpoint 是否在该页输出进度: 第1页、最后一页以及每10页
func IsProgressCheckpoint(page, total int) bool {
	return page == 1 || page == total || page%crawlers.ProgressInterval == 0
}

// Run 执行抓取任务
// 找不到分页下拉框时直接返回错误,不产生任何输出文件。
// 中途翻页失败、出错或ctx被取消时终止循环,已采集的记录照常导出。
func (s *Scraper) Run(ctx context.Context) (*models.RunResult, error) {
	result := models.NewRunResult(s.opts.SourceURL)
	utils.Logger.Info().Str("run_id", result.RunID).Msg("🚀 开始抓取越南海关统计数据")

	options, err := s.portal.PaginationOptions(ctx)
	if err != nil {
		if errors.Is(err, crawlers.ErrPaginationNotFound) {
			utils.Error(err, "❌ 页面上没有分页下拉框,无法抓取")
		}
		return nil, fmt.Errorf("读取分页信息失败: %w", err)
	}
	result.TotalPages = len(options)
	utils.Infof("📄 共 %d 页 (每页 %d 行)", result.TotalPages, crawlers.PageSize)

	s.crawlPages(ctx, result)
	result.Finish()

	if err := s.exporter.Export(result); err != nil {
		return result, fmt.Errorf("导出数据失败: %w", err)
	}
	if err := s.exporter.WriteReport(result); err != nil {
		utils.Warnf("生成运行报告失败: %v", err)
	}

	utils.Logger.Info().
		Str("status", string(result.Status)).
		Int("records", result.TotalRecords).
		Int("pages", result.PagesProcessed).
		Float64("duration", result.Duration).
		Msg("✅ 抓取任务结束")

	utils.PrintSummary(s.opts.Out, result)
	return result, nil
}

// crawlPages 顺序处理每一页,结果累积到result
func (s *Scraper) crawlPages(ctx context.Context, result *models.RunResult) {
	total := result.TotalPages

	var bar *progressbar.ProgressBar
	if s.opts.Progress != nil && total > 0 {
		bar = utils.NewProgressBar(total, "📥 抓取分页", s.opts.Progress)
		defer bar.Close()
	}

	snapshotter, canSnapshot := s.portal.(crawlers.Snapshotter)

	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			s.abort(result, page, fmt.Sprintf("任务已取消: %v", err))
			return
		}

		result.Status = models.RunStatusNavigating
		ok, err := s.navigator.GoToPage(ctx, page)
		if err != nil {
			s.abort(result, page, fmt.Sprintf("切换到第%d页失败: %v", page, err))
			return
		}
		if !ok {
			s.abort(result, page, fmt.Sprintf("第%d页翻页未确认", page))
			return
		}

		result.Status = models.RunStatusExtracting
		if canSnapshot {
			if path, err := snapshotter.Snapshot(ctx, page); err != nil {
				utils.Warnf("保存第%d页快照失败: %v", page, err)
			} else if path != "" {
				utils.Debugf("已保存快照: %s", path)
			}
		}

		records, err := s.extractor.Extract(ctx)
		if err != nil {
			s.abort(result, page, fmt.Sprintf("解析第%d页失败: %v", page, err))
			return
		}
		result.AddPage(page, records)

		if bar != nil {
			_ = bar.Add(1)
		}
		if IsProgressCheckpoint(page, total) {
			utils.Infof("✓ 第 %d/%d 页 (%.1f%%) | %d 条记录 | %.1fs",
				page, total, float64(page)*100/float64(total),
				result.TotalRecords, time.Since(result.StartTime).Seconds())
		}
	}
}

func (s *Scraper) abort(result *models.RunResult, page int, reason string) {
	result.Abort(reason)
	utils.Logger.Warn().
		Int("page", page).
		Int("records", result.TotalRecords).
		Msgf("⚠️  抓取终止: %s", reason)
}
