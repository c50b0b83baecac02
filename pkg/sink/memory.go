package sink

import (
	"context"
	"sync"
)

// Memory 内存日志，测试与试运行使用
type Memory struct {
	mu    sync.Mutex
	lines []string
	err   error
}

// NewMemory 创建内存日志
func NewMemory() *Memory {
	return &Memory{}
}

// Name 返回 Sink 名称
func (m *Memory) Name() string {
	return "memory"
}

// FailWith 之后的 Append 均返回 err（err 为 nil 时恢复正常）
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Append 追加一行
func (m *Memory) Append(_ context.Context, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.lines = append(m.lines, line)
	return nil
}

// Lines 返回已写入行的副本
func (m *Memory) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out
}

var _ Named = (*Memory)(nil)
