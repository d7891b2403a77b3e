package utils

import (
	"context"
	"time"
)

// Poll 有界的"检查-休眠"等待
// 先检查一次cond,不满足则休眠interval后重试,最多休眠maxAttempts次。
// 返回值:
//   - (true, nil):  条件在预算内满足
//   - (false, nil): 预算耗尽,条件仍未满足
//   - (false, err): cond返回错误或ctx被取消
func Poll(ctx context.Context, interval time.Duration, maxAttempts int, cond func() (bool, error)) (bool, error) {
	for attempt := 0; ; attempt++ {
		ok, err := cond()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		if attempt >= maxAttempts {
			return false, nil
		}
		if err := Sleep(ctx, interval); err != nil {
			return false, err
		}
	}
}

// Sleep 可被ctx中断的休眠
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
