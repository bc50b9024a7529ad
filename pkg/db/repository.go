package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 按主键操作单表的通用 GORM 仓储
type Repository[T any] struct {
	db       *gorm.DB
	order    string
	preloads []string
}

// NewRepository 创建通用仓储，order 为列表排序子句
func NewRepository[T any](db *gorm.DB, order string, preloads ...string) *Repository[T] {
	return &Repository[T]{db: db, order: order, preloads: preloads}
}

// DB 返回底层连接，供组合该仓储的具体实现使用
func (r *Repository[T]) DB() *gorm.DB { return r.db }

// Conn 返回当前 context 对应的连接
func (r *Repository[T]) Conn(ctx context.Context) *gorm.DB {
	return Conn(ctx, r.db)
}

// WithTx 在事务中执行 fn
func (r *Repository[T]) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return Transaction(ctx, r.db, fn)
}

func (r *Repository[T]) query(ctx context.Context) *gorm.DB {
	q := r.Conn(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

// List 按默认排序返回全部记录
func (r *Repository[T]) List(ctx context.Context) ([]*T, error) {
	var items []*T
	q := r.query(ctx)
	if r.order != "" {
		q = q.Order(r.order)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID 按主键查询，不存在时返回 nil, nil
func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var item T
	err := r.query(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Save 新增或全量更新记录，不级联保存关联
func (r *Repository[T]) Save(ctx context.Context, item *T) error {
	return r.Conn(ctx).Omit(clause.Associations).Save(item).Error
}

// Delete 按主键删除
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	var item T
	return r.Conn(ctx).Delete(&item, id).Error
}

// Count 统计记录数
func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	var item T
	err := r.Conn(ctx).Model(&item).Count(&n).Error
	return n, err
}
