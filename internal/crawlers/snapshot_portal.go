package crawlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/RecoveryAshes/customsvn/internal/utils"
	"github.com/gocolly/colly/v2"
)

// SnapshotFileName 第page页快照的文件名
func SnapshotFileName(page int) string {
	return fmt.Sprintf("page_%03d.html", page)
}

// snapshotPage 一份已加载快照中的分页状态和表格
type snapshotPage struct {
	file     string
	sel      *SelectState
	rows     [][]string
	hasTable bool
}

// SnapshotPortal 基于已保存HTML快照的离线门户
// 快照按 page_NNN.html 命名,通过Colly的file://传输读取。
// 触发change时加载分页值对应的快照;快照缺失则分页值保持不变,
// 由Navigator按翻页未确认处理。
type SnapshotPortal struct {
	dir                string
	paginationSelector string
	tableSelector      string

	collector *colly.Collector
	loading   *snapshotPage
	current   *snapshotPage
	pending   string
}

// NewSnapshotPortal 创建离线门户
func NewSnapshotPortal(dir, paginationSelector, tableSelector string) (*SnapshotPortal, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("解析快照目录失败: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("快照目录不可用: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("快照路径不是目录: %s", absDir)
	}

	if paginationSelector == "" {
		paginationSelector = DefaultPaginationSelector
	}
	if tableSelector == "" {
		tableSelector = DefaultTableSelector
	}

	t := &http.Transport{}
	t.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))

	c := colly.NewCollector(colly.AllowURLRevisit())
	c.WithTransport(t)

	sp := &SnapshotPortal{
		dir:                absDir,
		paginationSelector: paginationSelector,
		tableSelector:      tableSelector,
		collector:          c,
	}

	// 与document.querySelector一致,只取第一个匹配
	c.OnHTML(paginationSelector, func(e *colly.HTMLElement) {
		if sp.loading != nil && sp.loading.sel == nil {
			state := ParseSelect(e.DOM)
			sp.loading.sel = &state
		}
	})
	c.OnHTML(tableSelector, func(e *colly.HTMLElement) {
		if sp.loading != nil && !sp.loading.hasTable {
			sp.loading.rows = TableRows(e.DOM)
			sp.loading.hasTable = true
		}
	})

	return sp, nil
}

// Open 加载第1页快照作为初始页面
func (sp *SnapshotPortal) Open(ctx context.Context) error {
	page, err := sp.load(ctx, 1)
	if err != nil {
		return err
	}
	sp.current = page
	utils.Infof("📂 已加载离线快照: %s", page.file)
	return nil
}

// load 通过Colly读取第index页快照
func (sp *SnapshotPortal) load(ctx context.Context, index int) (*snapshotPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(sp.dir, SnapshotFileName(index))
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("快照不存在: %w", err)
	}

	sp.loading = &snapshotPage{file: path}
	defer func() { sp.loading = nil }()

	if err := sp.collector.Visit("file://" + filepath.ToSlash(path)); err != nil {
		return nil, fmt.Errorf("读取快照失败 [%s]: %w", path, err)
	}
	return sp.loading, nil
}

// PaginationOptions 实现Portal接口
func (sp *SnapshotPortal) PaginationOptions(ctx context.Context) ([]string, error) {
	if sp.current == nil || sp.current.sel == nil {
		return nil, ErrPaginationNotFound
	}
	return append([]string(nil), sp.current.sel.Options...), nil
}

// SelectionValue 实现Portal接口
func (sp *SnapshotPortal) SelectionValue(ctx context.Context) (string, error) {
	if sp.current == nil || sp.current.sel == nil {
		return "", ErrPaginationNotFound
	}
	return sp.current.sel.Value, nil
}

// SetPageSelection 实现Portal接口
func (sp *SnapshotPortal) SetPageSelection(ctx context.Context, value string) error {
	if sp.current == nil || sp.current.sel == nil {
		return ErrPaginationNotFound
	}
	sp.pending = value
	return nil
}

// TriggerSelectionChanged 实现Portal接口
func (sp *SnapshotPortal) TriggerSelectionChanged(ctx context.Context) error {
	if sp.current == nil || sp.current.sel == nil {
		return ErrPaginationNotFound
	}

	offset, err := strconv.Atoi(sp.pending)
	if err != nil || offset < 0 {
		return fmt.Errorf("无效的分页值: %q", sp.pending)
	}
	index := offset/PageSize + 1

	page, err := sp.load(ctx, index)
	if err != nil {
		// 与真实页面一致: 加载失败时页面停留在原处
		utils.Debugf("加载第%d页快照失败: %v", index, err)
		return nil
	}
	sp.current = page
	return nil
}

// ReadTableRows 实现Portal接口
func (sp *SnapshotPortal) ReadTableRows(ctx context.Context) ([][]string, error) {
	if sp.current == nil || !sp.current.hasTable {
		return nil, ErrTableNotFound
	}
	return sp.current.rows, nil
}
