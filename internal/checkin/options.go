package checkin

import (
	"context"
	"time"
)

// SleepFunc 等待 d；ctx 取消时提前返回 ctx.Err()
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep 基于 timer 的等待，不阻塞线程
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type options struct {
	now   func() time.Time
	sleep SleepFunc
}

func defaultOptions() options {
	return options{
		now:   time.Now,
		sleep: Sleep,
	}
}

// Option Checker / Retrier 选项
type Option func(*options)

// WithClock 替换日志时间来源
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithSleep 替换重试等待实现
func WithSleep(sleep SleepFunc) Option {
	return func(o *options) {
		o.sleep = sleep
	}
}
