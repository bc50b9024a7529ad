package domain

import (
	"context"
	"time"
)

const (
	TopicProductChanged = "catalog.product.changed"
	TopicStockChanged   = "catalog.stock.changed"
)

// EventPublisher 事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// ProductChangedEvent 商品新增、修改或删除
type ProductChangedEvent struct {
	ProductID  uint      `json:"product_id"`
	Op         string    `json:"op"`
	Name       string    `json:"name"`
	Price      string    `json:"price"`
	CategoryID uint      `json:"category_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// StockChangedEvent 库存行变更
type StockChangedEvent struct {
	StockID   uint      `json:"stock_id"`
	Op        string    `json:"op"`
	ProductID uint      `json:"product_id"`
	ColorID   uint      `json:"color_id"`
	SizeID    uint      `json:"size_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}
