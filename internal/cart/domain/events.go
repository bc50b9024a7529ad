package domain

import (
	"context"
	"time"
)

const (
	TopicLineAdded   = "cart.line.added"
	TopicLineRemoved = "cart.line.removed"
	TopicCleared     = "cart.cleared"
)

// EventPublisher 事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// LineAddedEvent 购物车加购事件
type LineAddedEvent struct {
	CartID    uint      `json:"cart_id"`
	LineID    uint      `json:"line_id"`
	ProductID uint      `json:"product_id"`
	ColorID   uint      `json:"color_id"`
	SizeID    uint      `json:"size_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// LineRemovedEvent 购物车行移除事件
type LineRemovedEvent struct {
	CartID    uint      `json:"cart_id"`
	LineID    uint      `json:"line_id"`
	ProductID uint      `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartClearedEvent 购物车清空事件
type CartClearedEvent struct {
	CartID    uint      `json:"cart_id"`
	Timestamp time.Time `json:"timestamp"`
}
