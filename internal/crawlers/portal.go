package crawlers

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// 门户分页与等待参数(固定值)
const (
	PageSize         = 20                     // 每页行数,分页下拉框的值为 (页码-1)*PageSize
	PollInterval     = 100 * time.Millisecond // 翻页确认的轮询间隔
	MaxPolls         = 50                     // 最多轮询次数(≈5秒)
	SettleDelay      = 300 * time.Millisecond // 确认翻页后等待表格重新渲染
	ProgressInterval = 10                     // 每10页输出一次进度

	DefaultPaginationSelector = "#slPages"
	DefaultTableSelector      = "table.list"
)

var (
	// ErrPaginationNotFound 页面上找不到分页下拉框,无法继续抓取
	ErrPaginationNotFound = errors.New("未找到分页下拉框")
	// ErrTableNotFound 当前页面没有数据表(可恢复)
	ErrTableNotFound = errors.New("未找到数据表")
)

// Portal 数据门户页面的能力接口
// 分页状态是单一的可变资源,同一时刻只能有一个调用方在翻页。
type Portal interface {
	// PaginationOptions 返回分页下拉框全部选项的值,每个选项对应一页
	PaginationOptions(ctx context.Context) ([]string, error)
	// SelectionValue 返回分页下拉框当前的值
	SelectionValue(ctx context.Context) (string, error)
	// SetPageSelection 设置分页下拉框的值(不触发change)
	SetPageSelection(ctx context.Context, value string) error
	// TriggerSelectionChanged 触发分页下拉框的change处理函数
	TriggerSelectionChanged(ctx context.Context) error
	// ReadTableRows 读取当前渲染的数据表,每个单元格为去除首尾空白后的innerText
	ReadTableRows(ctx context.Context) ([][]string, error)
}

// Snapshotter 可选能力: 保存当前页面HTML,供离线重放
type Snapshotter interface {
	Snapshot(ctx context.Context, page int) (string, error)
}

// Timing 翻页等待参数
type Timing struct {
	PollInterval time.Duration
	MaxPolls     int
	SettleDelay  time.Duration
}

// DefaultTiming 门户观测到的固定等待参数
func DefaultTiming() Timing {
	return Timing{
		PollInterval: PollInterval,
		MaxPolls:     MaxPolls,
		SettleDelay:  SettleDelay,
	}
}

// PageValue 页码对应的分页下拉框取值
func PageValue(pageNum int) string {
	return strconv.Itoa((pageNum - 1) * PageSize)
}
