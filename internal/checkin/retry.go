package checkin

import (
	"context"
	"fmt"
	"time"

	"github.com/justinwongcn/checkin/pkg/config"
	"github.com/justinwongcn/checkin/pkg/logger"
	"github.com/justinwongcn/checkin/pkg/sink"
)

// Retrier 固定间隔重试：第一次尝试也计入 maxRetries，间隔不递增
type Retrier struct {
	attempter  Attempter
	sink       sink.Sink
	logger     logger.Logger
	maxRetries uint
	delay      time.Duration
	opts       options
}

// NewRetrier 创建 Retrier；maxRetries 为 0 时按 1 处理（配置校验已拒绝 0）
func NewRetrier(attempter Attempter, s sink.Sink, log logger.Logger, maxRetries uint, delay time.Duration, opts ...Option) *Retrier {
	if maxRetries < 1 {
		maxRetries = 1
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Retrier{
		attempter:  attempter,
		sink:       s,
		logger:     log,
		maxRetries: maxRetries,
		delay:      delay,
		opts:       o,
	}
}

// Run 对单个账户执行签到直到成功或次数耗尽。
// 耗尽时写一行失败日志并返回 *ExhaustedError。
func (r *Retrier) Run(ctx context.Context, account config.Account) error {
	var attempts uint
	for {
		err := failure(r.attempter.Attempt(ctx, account))
		if err == nil {
			return nil
		}

		attempts++
		if attempts >= r.maxRetries {
			line := exhaustedLine(r.opts.now(), account.Email, attempts, err)
			r.logger.Errorf(ctx, "%s", line)
			if aerr := r.sink.Append(ctx, line); aerr != nil {
				r.logger.Errorf(ctx, "[Retrier] write log failed: %v", aerr)
			}
			return &ExhaustedError{Attempts: attempts, Last: err}
		}

		r.logger.Warnf(ctx, "[Retrier] attempt %d/%d failed: %v, retrying in %v",
			attempts, r.maxRetries, err, r.delay)

		if serr := r.opts.sleep(ctx, r.delay); serr != nil {
			return fmt.Errorf("retry interrupted after %d attempts (%v): %w", attempts, serr, err)
		}
	}
}
