// Package mysql 后台审计记录的 GORM 仓储实现
package mysql

import (
	"context"

	"github.com/wyfcoding/storefront/internal/admin/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/gorm"
)

type actionRepository struct {
	db *gorm.DB
}

func NewActionRepository(conn *gorm.DB) domain.ActionRepository {
	return &actionRepository{db: conn}
}

func (r *actionRepository) Save(ctx context.Context, action *domain.AdminAction) error {
	return db.Conn(ctx, r.db).Create(action).Error
}

func (r *actionRepository) Recent(ctx context.Context, limit int) ([]*domain.AdminAction, error) {
	var actions []*domain.AdminAction
	err := db.Conn(ctx, r.db).Order("id DESC").Limit(limit).Find(&actions).Error
	return actions, err
}

// Models 返回需要迁移的表模型
func Models() []any {
	return []any{&domain.AdminAction{}}
}
