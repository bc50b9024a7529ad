// Package domain 管理后台的领域模型：可管理实体的存储端口与操作审计
package domain

import (
	"context"
	"time"
)

// Store 后台可管理实体的存储端口，pkg/crud.Service 满足该接口
type Store[T any] interface {
	List(ctx context.Context) ([]*T, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, id uint, apply func(item *T) error) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// AdminAction 员工在后台的一次写操作
type AdminAction struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	Actor     string    `gorm:"column:actor;type:varchar(150);index;not null" json:"actor"`
	Resource  string    `gorm:"column:resource;type:varchar(50);not null" json:"resource"`
	Op        string    `gorm:"column:op;type:varchar(20);not null" json:"op"`
	ItemID    uint      `gorm:"column:item_id;not null" json:"item_id"`
	Label     string    `gorm:"column:label;type:varchar(255)" json:"label"`
}

func (AdminAction) TableName() string { return "admin_actions" }

// ActionRepository 操作审计仓储
type ActionRepository interface {
	Save(ctx context.Context, action *AdminAction) error
	Recent(ctx context.Context, limit int) ([]*AdminAction, error)
}
