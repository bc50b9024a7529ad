package mysql

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/gorm"
)

const productOrder = "created_at DESC, id DESC"

type productRepository struct {
	*db.Repository[domain.Product]
}

func NewProductRepository(conn *gorm.DB) domain.ProductRepository {
	return &productRepository{db.NewRepository[domain.Product](conn, productOrder, "Category", "Brand", "Colors")}
}

func (r *productRepository) filtered(ctx context.Context, f domain.ProductFilter) *gorm.DB {
	q := r.Conn(ctx).Model(&domain.Product{})
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.BrandID != 0 {
		q = q.Where("brand_id = ?", f.BrandID)
	}
	if f.ColorID != 0 {
		q = q.Where("id IN (?)", r.Conn(ctx).Table("product_colors").Select("product_id").Where("color_id = ?", f.ColorID))
	}
	if f.SizeID != 0 {
		q = q.Where("id IN (?)", r.Conn(ctx).Model(&domain.StockEntry{}).Select("product_id").Where("size_id = ?", f.SizeID))
	}
	return q
}

func (r *productRepository) Search(ctx context.Context, f domain.ProductFilter, offset, limit int) ([]*domain.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*domain.Product
	err := r.filtered(ctx, f).
		Preload("Category").Preload("Brand").Preload("Colors").
		Order(productOrder).
		Offset(offset).Limit(limit).
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) Newest(ctx context.Context, limit int) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.Conn(ctx).
		Preload("Category").Preload("Brand").Preload("Colors").
		Order(productOrder).Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.Conn(ctx).Model(&domain.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (r *productRepository) ClearBrand(ctx context.Context, brandID uint) error {
	return r.Conn(ctx).Model(&domain.Product{}).Where("brand_id = ?", brandID).Update("brand_id", nil).Error
}

func (r *productRepository) ReplaceColors(ctx context.Context, productID uint, colorIDs []uint) error {
	conn := r.Conn(ctx)
	if err := conn.Exec("DELETE FROM product_colors WHERE product_id = ?", productID).Error; err != nil {
		return err
	}
	colorIDs = lo.Uniq(colorIDs)
	if len(colorIDs) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("(?, ?), ", len(colorIDs)), ", ")
	args := lo.FlatMap(colorIDs, func(id uint, _ int) []any { return []any{productID, id} })
	return conn.Exec("INSERT INTO product_colors (product_id, color_id) VALUES "+placeholders, args...).Error
}

func (r *productRepository) RemoveColor(ctx context.Context, colorID uint) error {
	return r.Conn(ctx).Exec("DELETE FROM product_colors WHERE color_id = ?", colorID).Error
}
