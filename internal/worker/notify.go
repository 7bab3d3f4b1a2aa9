package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"resumeforge/internal/tasks"
)

// ExportNotifyMessage 是通过 Redis Pub/Sub 转发给前端的导出结果。
// 注意：这里的字段名与前端解析保持一致。
type ExportNotifyMessage struct {
	Status          string   `json:"status"`
	ResumeID        uint     `json:"resume_id"`
	Format          string   `json:"format"`
	CorrelationID   string   `json:"correlation_id"`
	ErrorCode       int      `json:"error_code"`
	ErrorMessage    string   `json:"error_message"`
	MissingSegments []string `json:"missing_segments,omitempty"`
}

// Notifier 把导出结果推送给简历所有者。
type Notifier interface {
	Notify(ctx context.Context, owner string, msg ExportNotifyMessage) error
}

// RedisNotifier 把消息发布到 user_notify:<owner> 频道，由 API 的 WebSocket 转发。
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Notify(ctx context.Context, owner string, msg ExportNotifyMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := tasks.NotifyChannel(owner)
	if err := n.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}
