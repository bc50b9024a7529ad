// Package mysql 商品目录的 GORM 仓储实现（同样适用于 postgres 与 sqlite）
package mysql

import (
	"context"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/gorm"
)

type categoryRepository struct {
	*db.Repository[domain.Category]
}

func NewCategoryRepository(conn *gorm.DB) domain.CategoryRepository {
	return &categoryRepository{db.NewRepository[domain.Category](conn, "name")}
}

type brandRepository struct {
	*db.Repository[domain.Brand]
}

func NewBrandRepository(conn *gorm.DB) domain.BrandRepository {
	return &brandRepository{db.NewRepository[domain.Brand](conn, "name")}
}

type colorRepository struct {
	*db.Repository[domain.Color]
}

func NewColorRepository(conn *gorm.DB) domain.ColorRepository {
	return &colorRepository{db.NewRepository[domain.Color](conn, "sort_order, name")}
}

func (r *colorRepository) ListByIDs(ctx context.Context, ids []uint) ([]*domain.Color, error) {
	var colors []*domain.Color
	if len(ids) == 0 {
		return colors, nil
	}
	err := r.Conn(ctx).Where("id IN ?", ids).Order("sort_order, name").Find(&colors).Error
	return colors, err
}

func (r *colorRepository) ListStockedForProduct(ctx context.Context, productID uint) ([]*domain.Color, error) {
	var colors []*domain.Color
	stocked := r.Conn(ctx).Model(&domain.StockEntry{}).Select("color_id").Where("product_id = ?", productID)
	err := r.Conn(ctx).Where("id IN (?)", stocked).Order("sort_order, name").Find(&colors).Error
	return colors, err
}

type sizeRepository struct {
	*db.Repository[domain.Size]
}

func NewSizeRepository(conn *gorm.DB) domain.SizeRepository {
	return &sizeRepository{db.NewRepository[domain.Size](conn, "sort_order, name")}
}

func (r *sizeRepository) ListStockedForProduct(ctx context.Context, productID uint) ([]*domain.Size, error) {
	var sizes []*domain.Size
	stocked := r.Conn(ctx).Model(&domain.StockEntry{}).Select("size_id").Where("product_id = ?", productID)
	err := r.Conn(ctx).Where("id IN (?)", stocked).Order("sort_order, name").Find(&sizes).Error
	return sizes, err
}

// Models 返回需要迁移的表模型
func Models() []any {
	return []any{
		&domain.Category{},
		&domain.Color{},
		&domain.Size{},
		&domain.Brand{},
		&domain.Product{},
		&domain.StockEntry{},
	}
}
