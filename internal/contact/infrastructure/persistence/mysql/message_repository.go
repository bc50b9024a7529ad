// Package mysql 留言的 GORM 仓储实现
package mysql

import (
	"context"

	"github.com/wyfcoding/storefront/internal/contact/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/gorm"
)

type messageRepository struct {
	*db.Repository[domain.ContactMessage]
}

func NewMessageRepository(conn *gorm.DB) domain.MessageRepository {
	return &messageRepository{db.NewRepository[domain.ContactMessage](conn, "received_at DESC")}
}

func (r *messageRepository) Recent(ctx context.Context, limit int) ([]*domain.ContactMessage, error) {
	var items []*domain.ContactMessage
	err := r.Conn(ctx).Order("received_at DESC, id DESC").Limit(limit).Find(&items).Error
	return items, err
}

// Models 返回需要迁移的表模型
func Models() []any {
	return []any{&domain.ContactMessage{}}
}
