package crawlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RecoveryAshes/customsvn/internal/utils"
)

// Navigator 分页导航器
// 设置分页下拉框的值并触发change,随后轮询直到下拉框的值发生变化(翻页确认),
// 再等待固定的渲染时间。
type Navigator struct {
	portal Portal
	timing Timing
}

// NewNavigator 创建分页导航器
func NewNavigator(portal Portal, timing Timing) *Navigator {
	return &Navigator{portal: portal, timing: timing}
}

// GoToPage 切换到第pageNum页(从1开始)
// 返回:
//   - (true, nil):  翻页已确认并等待渲染完成
//   - (false, nil): 下拉框的值在等待预算内没有变化(软失败,由调用方决定是否终止)
//   - (false, err): 找不到分页下拉框(ErrPaginationNotFound)或ctx被取消
func (n *Navigator) GoToPage(ctx context.Context, pageNum int) (bool, error) {
	if pageNum < 1 {
		return false, fmt.Errorf("无效的页码: %d", pageNum)
	}

	oldVal, err := n.portal.SelectionValue(ctx)
	if err != nil {
		if errors.Is(err, ErrPaginationNotFound) {
			utils.Errorf("❌ 未找到分页下拉框,无法切换到第%d页", pageNum)
		}
		return false, err
	}

	newVal := PageValue(pageNum)
	if err := n.portal.SetPageSelection(ctx, newVal); err != nil {
		return false, fmt.Errorf("设置分页值失败: %w", err)
	}
	if err := n.portal.TriggerSelectionChanged(ctx); err != nil {
		return false, fmt.Errorf("触发分页change失败: %w", err)
	}

	// 目标页就是当前页(如首次加载时的第1页),无需等待确认
	if newVal != oldVal {
		changed, err := utils.Poll(ctx, n.timing.PollInterval, n.timing.MaxPolls, func() (bool, error) {
			cur, err := n.portal.SelectionValue(ctx)
			if err != nil {
				// 页面重新加载期间下拉框可能暂时不可读,继续等待
				utils.Debugf("读取分页值失败(第%d页): %v", pageNum, err)
				return false, nil
			}
			return cur != oldVal, nil
		})
		if err != nil {
			return false, err
		}
		if !changed {
			utils.Warnf("⚠️  第%d页翻页未确认: 分页值在%v内保持为 %q", pageNum,
				time.Duration(n.timing.MaxPolls)*n.timing.PollInterval, oldVal)
			return false, nil
		}
	}

	if err := utils.Sleep(ctx, n.timing.SettleDelay); err != nil {
		return false, err
	}

	utils.Debugf("已切换到第%d页 (分页值 %s -> %s)", pageNum, oldVal, newVal)
	return true, nil
}
