// Package mysql 购物车的 GORM 仓储实现
package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepository struct{ db *gorm.DB }

func NewCartRepository(conn *gorm.DB) domain.CartRepository {
	return &cartRepository{db: conn}
}

// Models 需要迁移的购物车表
func Models() []any {
	return []any{&domain.Cart{}, &domain.CartLine{}}
}

func (r *cartRepository) conn(ctx context.Context) *gorm.DB {
	return db.Conn(ctx, r.db)
}

func (r *cartRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.Transaction(ctx, r.db, fn)
}

func (r *cartRepository) GetByOwner(ctx context.Context, owner domain.Owner) (*domain.Cart, error) {
	q := r.conn(ctx)
	if owner.IsAnonymous() {
		q = q.Where("session_key = ?", owner.SessionKey)
	} else {
		q = q.Where("user_id = ?", owner.UserID)
	}
	var cart domain.Cart
	return first(q, &cart)
}

func (r *cartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	return r.conn(ctx).Omit(clause.Associations).Create(cart).Error
}

func (r *cartRepository) ListLines(ctx context.Context, cartID uint) ([]*domain.CartLine, error) {
	var lines []*domain.CartLine
	err := r.conn(ctx).
		Preload("Product").Preload("Color").Preload("Size").
		Where("cart_id = ?", cartID).
		Order("added_at, id").
		Find(&lines).Error
	return lines, err
}

func (r *cartRepository) FindLine(ctx context.Context, cartID, lineID uint) (*domain.CartLine, error) {
	var line domain.CartLine
	q := r.conn(ctx).Preload("Product").Where("id = ? AND cart_id = ?", lineID, cartID)
	return first(q, &line)
}

func (r *cartRepository) FindLineByItem(ctx context.Context, cartID, productID, colorID, sizeID uint) (*domain.CartLine, error) {
	var line domain.CartLine
	q := r.conn(ctx).Where("cart_id = ? AND product_id = ? AND color_id = ? AND size_id = ?", cartID, productID, colorID, sizeID)
	return first(q, &line)
}

func (r *cartRepository) SaveLine(ctx context.Context, line *domain.CartLine) error {
	return r.conn(ctx).Omit(clause.Associations).Save(line).Error
}

func (r *cartRepository) DeleteLine(ctx context.Context, lineID uint) error {
	return r.conn(ctx).Delete(&domain.CartLine{}, lineID).Error
}

func (r *cartRepository) ClearLines(ctx context.Context, cartID uint) error {
	return r.deleteLinesWhere(ctx, "cart_id = ?", cartID)
}

func (r *cartRepository) CountItems(ctx context.Context, cartID uint) (int, error) {
	var n int64
	err := r.conn(ctx).Model(&domain.CartLine{}).
		Where("cart_id = ?", cartID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&n).Error
	return int(n), err
}

func (r *cartRepository) DeleteLinesByProduct(ctx context.Context, productID uint) error {
	return r.deleteLinesWhere(ctx, "product_id = ?", productID)
}

func (r *cartRepository) DeleteLinesByColor(ctx context.Context, colorID uint) error {
	return r.deleteLinesWhere(ctx, "color_id = ?", colorID)
}

func (r *cartRepository) DeleteLinesBySize(ctx context.Context, sizeID uint) error {
	return r.deleteLinesWhere(ctx, "size_id = ?", sizeID)
}

func (r *cartRepository) deleteLinesWhere(ctx context.Context, cond string, arg any) error {
	return r.conn(ctx).Where(cond, arg).Delete(&domain.CartLine{}).Error
}

func first[T any](q *gorm.DB, dest *T) (*T, error) {
	err := q.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return dest, nil
}
