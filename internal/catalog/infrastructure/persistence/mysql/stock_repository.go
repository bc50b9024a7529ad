package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/gorm"
)

const stockOrder = "stock_entries.product_id, colors.sort_order, sizes.sort_order"

type stockRepository struct {
	*db.Repository[domain.StockEntry]
}

func NewStockRepository(conn *gorm.DB) domain.StockRepository {
	return &stockRepository{db.NewRepository[domain.StockEntry](conn, "", "Product", "Color", "Size")}
}

func (r *stockRepository) ordered(ctx context.Context) *gorm.DB {
	return r.Conn(ctx).
		Select("stock_entries.*").
		Joins("JOIN colors ON colors.id = stock_entries.color_id").
		Joins("JOIN sizes ON sizes.id = stock_entries.size_id").
		Preload("Color").Preload("Size").
		Order(stockOrder)
}

// List 按商品、颜色顺序、尺码顺序列出全部库存
func (r *stockRepository) List(ctx context.Context) ([]*domain.StockEntry, error) {
	var entries []*domain.StockEntry
	err := r.ordered(ctx).Preload("Product").Find(&entries).Error
	return entries, err
}

func (r *stockRepository) Find(ctx context.Context, productID, colorID, sizeID uint) (*domain.StockEntry, error) {
	var entry domain.StockEntry
	err := r.Conn(ctx).
		Where("product_id = ? AND color_id = ? AND size_id = ?", productID, colorID, sizeID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *stockRepository) ListByProduct(ctx context.Context, productID uint, inStockOnly bool) ([]*domain.StockEntry, error) {
	q := r.ordered(ctx).Where("stock_entries.product_id = ?", productID)
	if inStockOnly {
		q = q.Where("stock_entries.quantity > 0")
	}
	var entries []*domain.StockEntry
	err := q.Find(&entries).Error
	return entries, err
}

func (r *stockRepository) ListByProducts(ctx context.Context, productIDs []uint) ([]*domain.StockEntry, error) {
	var entries []*domain.StockEntry
	if len(productIDs) == 0 {
		return entries, nil
	}
	err := r.Conn(ctx).Where("product_id IN ?", productIDs).Find(&entries).Error
	return entries, err
}

func (r *stockRepository) CountByColor(ctx context.Context, colorID uint) (int64, error) {
	return r.countWhere(ctx, "color_id = ?", colorID)
}

func (r *stockRepository) CountBySize(ctx context.Context, sizeID uint) (int64, error) {
	return r.countWhere(ctx, "size_id = ?", sizeID)
}

func (r *stockRepository) CountBelow(ctx context.Context, threshold int) (int64, error) {
	return r.countWhere(ctx, "quantity < ?", threshold)
}

func (r *stockRepository) DeleteByProduct(ctx context.Context, productID uint) error {
	return r.Conn(ctx).Where("product_id = ?", productID).Delete(&domain.StockEntry{}).Error
}

func (r *stockRepository) countWhere(ctx context.Context, cond string, arg any) (int64, error) {
	var n int64
	err := r.Conn(ctx).Model(&domain.StockEntry{}).Where(cond, arg).Count(&n).Error
	return n, err
}
