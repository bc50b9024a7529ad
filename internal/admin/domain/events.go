package domain

import (
	"context"
	"time"
)

const TopicAdminAction = "admin.action"

// EventPublisher 事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// AdminActionEvent 后台写操作
type AdminActionEvent struct {
	Actor     string    `json:"actor"`
	Resource  string    `json:"resource"`
	Op        string    `json:"op"`
	ItemID    uint      `json:"item_id"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}
