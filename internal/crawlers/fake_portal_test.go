package crawlers

import (
	"context"
	"fmt"
	"time"
)

// fakePortal 内存中的门户,按分页值返回对应的表格
type fakePortal struct {
	options   []string
	value     string
	pending   string
	tables    map[string][][]string // 分页值 -> 表格行(含表头)
	noControl bool                  // 模拟找不到分页下拉框
	frozen    bool                  // 模拟change无响应,分页值永不变化

	sets     []string
	triggers int
	reads    int
}

func newFakePortal(pages ...[][]string) *fakePortal {
	fp := &fakePortal{tables: make(map[string][][]string)}
	for i, rows := range pages {
		v := fmt.Sprint(i * PageSize)
		fp.options = append(fp.options, v)
		if rows != nil {
			fp.tables[v] = rows
		}
	}
	if len(fp.options) > 0 {
		fp.value = fp.options[0]
	}
	return fp
}

func (fp *fakePortal) PaginationOptions(ctx context.Context) ([]string, error) {
	if fp.noControl {
		return nil, ErrPaginationNotFound
	}
	return fp.options, nil
}

func (fp *fakePortal) SelectionValue(ctx context.Context) (string, error) {
	if fp.noControl {
		return "", ErrPaginationNotFound
	}
	return fp.value, nil
}

func (fp *fakePortal) SetPageSelection(ctx context.Context, value string) error {
	if fp.noControl {
		return ErrPaginationNotFound
	}
	fp.sets = append(fp.sets, value)
	fp.pending = value
	return nil
}

func (fp *fakePortal) TriggerSelectionChanged(ctx context.Context) error {
	if fp.noControl {
		return ErrPaginationNotFound
	}
	fp.triggers++
	if !fp.frozen {
		fp.value = fp.pending
	}
	return nil
}

func (fp *fakePortal) ReadTableRows(ctx context.Context) ([][]string, error) {
	fp.reads++
	rows, ok := fp.tables[fp.value]
	if !ok {
		return nil, ErrTableNotFound
	}
	return rows, nil
}

// dataRows 生成表头 + n行有效数据
func dataRows(startSTT, n int) [][]string {
	rows := [][]string{{"STT", "Chỉ tiêu", "Diễn giải", "Kỳ", "Trị giá", "Tăng/giảm", "Lũy kế", "Tăng/giảm"}}
	for i := 0; i < n; i++ {
		stt := fmt.Sprint(startSTT + i)
		rows = append(rows, []string{stt, "Xuất khẩu", "Tổng trị giá", "T1/2024", "33,57", "-4,2", "33,57", "42,0"})
	}
	return rows
}

// fastTiming 测试用的短等待参数
func fastTiming() Timing {
	return Timing{PollInterval: time.Millisecond, MaxPolls: 5, SettleDelay: time.Millisecond}
}
