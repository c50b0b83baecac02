package lmstfy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bitleak/lmstfy/client"

	"github.com/justinwongcn/checkin/pkg/errorutil"
	"github.com/justinwongcn/checkin/pkg/logger"
)

// publisher lmstfy 发布接口（*client.LmstfyClient 满足）
type publisher interface {
	Publish(queue string, data []byte, ttlSecond uint32, tries uint16, delaySecond uint32) (string, error)
}

// LogJob 投递到队列的日志消息
type LogJob struct {
	RunID   string `json:"run_id,omitempty"`
	Account string `json:"account,omitempty"`
	Line    string `json:"line"`
}

// Sink 将每行日志作为 Job 发布到 lmstfy 队列，供下游消费
type Sink struct {
	cli   publisher
	queue string
}

// NewSink 创建 lmstfy Sink
func NewSink(host string, port int, namespace, token, queue string) (*Sink, error) {
	if host == "" || namespace == "" || queue == "" {
		return nil, errors.New("lmstfy host, namespace and queue are required")
	}
	cli := client.NewLmstfyClient(host, port, namespace, token)
	return &Sink{
		cli:   cli,
		queue: queue,
	}, nil
}

// Name 返回 Sink 名称
func (s *Sink) Name() string {
	return "lmstfy"
}

// Append 发布一行日志（ttl 0 表示不过期，只投递一次，不延迟）
func (s *Sink) Append(ctx context.Context, line string) error {
	data, err := json.Marshal(LogJob{
		RunID:   logger.RunIDFrom(ctx),
		Account: logger.AccountFrom(ctx),
		Line:    line,
	})
	if err != nil {
		return errorutil.LogWrite(s.Name(), fmt.Errorf("marshal log job failed: %w", err))
	}

	if _, err := s.cli.Publish(s.queue, data, 0, 1, 0); err != nil {
		return errorutil.LogWrite(s.Name(), fmt.Errorf("lmstfy publish failed: %w", err))
	}
	return nil
}
