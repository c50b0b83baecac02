package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/justinwongcn/checkin/pkg/errorutil"
)

// DefaultKey 默认写入的 list key
const DefaultKey = "checkin:log"

// ListSink 将日志行 RPUSH 到 Redis list；单条命令写入一整行，天然不交错
type ListSink struct {
	client *redis.Client
	key    string
}

// NewListSink 创建 ListSink 并测试连接
func NewListSink(addr, password string, db int, key string) (*ListSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewListSinkWithClient(client, key), nil
}

// NewListSinkWithClient 使用已有客户端创建 ListSink
func NewListSinkWithClient(client *redis.Client, key string) *ListSink {
	if key == "" {
		key = DefaultKey
	}
	return &ListSink{
		client: client,
		key:    key,
	}
}

// Name 返回 Sink 名称
func (s *ListSink) Name() string {
	return "redis"
}

// Key 返回写入的 list key
func (s *ListSink) Key() string {
	return s.key
}

// Append 追加一行
func (s *ListSink) Append(ctx context.Context, line string) error {
	if err := s.client.RPush(ctx, s.key, line).Err(); err != nil {
		return errorutil.LogWrite(s.Name(), err)
	}
	return nil
}

// Close 关闭 Redis 连接
func (s *ListSink) Close() error {
	return s.client.Close()
}
