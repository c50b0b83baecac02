package worker

import (
	"context"

	"github.com/justinwongcn/checkin/pkg/config"
	"github.com/justinwongcn/checkin/pkg/logger"
)

// Runner 对单个账户执行带重试的签到（由 checkin.Retrier 实现）
type Runner interface {
	Run(ctx context.Context, account config.Account) error
}

// Worker 接口
type Worker interface {
	Run(ctx context.Context) error
	GetName() string
}

// AccountWorker 单个账户的签到任务
type AccountWorker struct {
	account config.Account
	runner  Runner
	logger  logger.Logger
}

// NewAccountWorker 创建账户任务
func NewAccountWorker(account config.Account, runner Runner, log logger.Logger) Worker {
	return &AccountWorker{
		account: account,
		runner:  runner,
		logger:  log,
	}
}

// Run 执行签到直到成功或重试耗尽
func (w *AccountWorker) Run(ctx context.Context) error {
	ctx = logger.WithAccount(ctx, w.account.Email)
	w.logger.Debugf(ctx, "[Worker] %s started", w.account.Email)
	return w.runner.Run(ctx, w.account)
}

// GetName 获取 Worker 名称（账户邮箱）
func (w *AccountWorker) GetName() string {
	return w.account.Email
}
