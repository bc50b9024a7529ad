package domain

import (
	"context"
	"time"
)

const TopicCustomerRegistered = "customer.registered"

// EventPublisher 事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// CustomerRegisteredEvent 前台注册完成
type CustomerRegisteredEvent struct {
	CustomerID uint      `json:"customer_id"`
	UserID     uint      `json:"user_id"`
	Email      string    `json:"email"`
	Newsletter bool      `json:"newsletter"`
	Timestamp  time.Time `json:"timestamp"`
}
