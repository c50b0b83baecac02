// Package sink 签到日志输出：每次 Append 写入一行完整文本，实现需保证并发安全且行不交错。
package sink

import (
	"context"

	"go.uber.org/multierr"
)

// Sink 只追加的文本日志
type Sink interface {
	// Append 追加一行（不含换行符）
	Append(ctx context.Context, line string) error
}

// Named 带名称的 Sink，用于错误信息
type Named interface {
	Sink
	Name() string
}

// Multi 扇出到多个 Sink
type Multi struct {
	sinks []Sink
}

// NewMulti 创建扇出 Sink
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

// Add 追加一个 Sink（仅在启动阶段调用）
func (m *Multi) Add(s Sink) {
	m.sinks = append(m.sinks, s)
}

// Len 返回 Sink 数量
func (m *Multi) Len() int {
	return len(m.sinks)
}

// Append 依次写入所有 Sink，任一失败不影响其他 Sink
func (m *Multi) Append(ctx context.Context, line string) error {
	var err error
	for _, s := range m.sinks {
		err = multierr.Append(err, s.Append(ctx, line))
	}
	return err
}

var _ Sink = (*Multi)(nil)
