package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/justinwongcn/checkin/internal/checkin"
	"github.com/justinwongcn/checkin/pkg/config"
	"github.com/justinwongcn/checkin/pkg/errorutil"
	"github.com/justinwongcn/checkin/pkg/logger"
	"github.com/justinwongcn/checkin/pkg/sink"
)

// Summary 一次运行的统计
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Manager 为每个账户启动独立 goroutine，等待全部结束；单个账户失败不影响其他账户
type Manager struct {
	workers   []Worker
	sink      sink.Sink
	logger    logger.Logger
	now       func() time.Time
	succeeded *atomic.Int64
	failed    *atomic.Int64
}

// NewManager 根据配置为每个账户创建 Worker，所有 Worker 共享同一个 Runner
func NewManager(cfg *config.Config, runner Runner, s sink.Sink, log logger.Logger) *Manager {
	workers := make([]Worker, 0, len(cfg.Accounts))
	for _, account := range cfg.Accounts {
		workers = append(workers, NewAccountWorker(account, runner, log))
	}
	return NewManagerWithWorkers(workers, s, log)
}

// NewManagerWithWorkers 使用给定的 Worker 创建 Manager
func NewManagerWithWorkers(workers []Worker, s sink.Sink, log logger.Logger) *Manager {
	return &Manager{
		workers:   workers,
		sink:      s,
		logger:    log,
		now:       time.Now,
		succeeded: atomic.NewInt64(0),
		failed:    atomic.NewInt64(0),
	}
}

// Run 并发执行所有 Worker，阻塞直到全部结束
func (m *Manager) Run(ctx context.Context) Summary {
	m.logger.Infof(ctx, "[Manager] Starting %d workers", len(m.workers))

	var wg sync.WaitGroup
	for _, worker := range m.workers {
		w := worker
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.runOne(ctx, w)
		}()
	}
	wg.Wait()

	summary := Summary{
		Total:     len(m.workers),
		Succeeded: int(m.succeeded.Load()),
		Failed:    int(m.failed.Load()),
	}
	m.logger.Infof(ctx, "[Manager] All workers finished: total=%d succeeded=%d failed=%d",
		summary.Total, summary.Succeeded, summary.Failed)

	return summary
}

// runOne 执行单个 Worker 并隔离处理其失败
func (m *Manager) runOne(ctx context.Context, w Worker) {
	err := w.Run(ctx)
	if err == nil {
		m.succeeded.Inc()
		return
	}
	m.failed.Inc()

	ctx = logger.WithAccount(ctx, w.GetName())
	line := checkin.ProcessFailedLine(m.now(), w.GetName(), err)
	m.logger.Errorf(ctx, "%s", line)
	if aerr := m.sink.Append(ctx, line); aerr != nil {
		m.logger.Errorf(ctx, "[Manager] write log failed (%s): %v", errorutil.KindOf(aerr), aerr)
	}
}
