package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/justinwongcn/checkin/internal/checkin"
	"github.com/justinwongcn/checkin/internal/worker"
	"github.com/justinwongcn/checkin/pkg/config"
	"github.com/justinwongcn/checkin/pkg/logger"
	"github.com/justinwongcn/checkin/pkg/sink"
	"github.com/justinwongcn/checkin/pkg/transport"
)

var (
	configPath = flag.String("config", "./config.yaml", "配置文件路径（.yaml/.yml 或 .json）")
)

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. 初始化 Logger
	zapLogger, err := logger.NewZapLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// 3. 创建 HTTP 客户端（所有账户共享）
	client, err := transport.NewClient(transport.Options{
		Timeout: cfg.HTTP.Timeout,
		Proxy:   cfg.HTTP.Proxy,
	})
	if err != nil {
		log.Fatalf("Failed to create http client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRunID(ctx, uuid.New().String())

	zapLogger.Infof(ctx, "Config loaded: accounts=%d, max_retries=%d, retry_delay=%ds, log_file=%s",
		len(cfg.Accounts), cfg.MaxRetries, cfg.RetryDelay, cfg.LogFile)

	// 4. 组装日志 Sink
	logSink, closers := buildSinks(ctx, cfg, zapLogger)
	defer func() {
		for _, c := range closers {
			if err := c(); err != nil {
				zapLogger.Warnf(ctx, "Close sink failed: %v", err)
			}
		}
	}()

	// 5. 组装签到流程
	checker, err := checkin.NewChecker(client, logSink, zapLogger, cfg.Endpoint, cfg.Token)
	if err != nil {
		log.Fatalf("Failed to create checker: %v", err)
	}
	retrier := checkin.NewRetrier(checker, logSink, zapLogger, cfg.MaxRetries, cfg.RetryDelayDuration())

	// 6. 所有账户并发执行，等待全部结束；账户失败不影响退出码
	worker.NewManager(cfg, retrier, logSink, zapLogger).Run(ctx)
}

// buildSinks 文件 Sink 必选；附加 Sink 创建失败只上报并跳过
func buildSinks(ctx context.Context, cfg *config.Config, log logger.Logger) (*sink.Multi, []func() error) {
	multi := sink.NewMulti(sink.NewFile(cfg.LogFile))
	var closers []func() error

	for _, opt := range optionalSinks(cfg) {
		s, closer, err := opt.build()
		if err != nil {
			log.Errorf(ctx, "Skip %s sink: %v", opt.name, err)
			continue
		}
		multi.Add(s)
		if closer != nil {
			closers = append(closers, closer)
		}
		log.Infof(ctx, "Mirror sink enabled: %s", s.Name())
	}

	return multi, closers
}
