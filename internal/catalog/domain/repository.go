package domain

import "context"

// Repository 参考数据的通用仓储能力
type Repository[T any] interface {
	List(ctx context.Context) ([]*T, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	Save(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type CategoryRepository interface {
	Repository[Category]
}

type BrandRepository interface {
	Repository[Brand]
}

type ColorRepository interface {
	Repository[Color]
	// ListByIDs 按 ID 查询，缺失的 ID 不报错
	ListByIDs(ctx context.Context, ids []uint) ([]*Color, error)
	// ListStockedForProduct 返回该商品库存行中出现过的颜色
	ListStockedForProduct(ctx context.Context, productID uint) ([]*Color, error)
}

type SizeRepository interface {
	Repository[Size]
	ListStockedForProduct(ctx context.Context, productID uint) ([]*Size, error)
}

// ProductRepository 商品仓储，GetByID 预加载分类、品牌与颜色
type ProductRepository interface {
	Repository[Product]
	Search(ctx context.Context, filter ProductFilter, offset, limit int) ([]*Product, int64, error)
	Newest(ctx context.Context, limit int) ([]*Product, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
	ClearBrand(ctx context.Context, brandID uint) error
	ReplaceColors(ctx context.Context, productID uint, colorIDs []uint) error
	RemoveColor(ctx context.Context, colorID uint) error
}

// StockRepository 库存仓储
type StockRepository interface {
	Repository[StockEntry]
	Find(ctx context.Context, productID, colorID, sizeID uint) (*StockEntry, error)
	ListByProduct(ctx context.Context, productID uint, inStockOnly bool) ([]*StockEntry, error)
	// ListByProducts 一次取出多个商品的全部库存行，不预加载关联
	ListByProducts(ctx context.Context, productIDs []uint) ([]*StockEntry, error)
	CountByColor(ctx context.Context, colorID uint) (int64, error)
	CountBySize(ctx context.Context, sizeID uint) (int64, error)
	CountBelow(ctx context.Context, threshold int) (int64, error)
	DeleteByProduct(ctx context.Context, productID uint) error
}

// CartLineCleaner 删除引用商品目录条目的购物车行，在调用方事务内执行
type CartLineCleaner interface {
	DeleteLinesByProduct(ctx context.Context, productID uint) error
	DeleteLinesByColor(ctx context.Context, colorID uint) error
	DeleteLinesBySize(ctx context.Context, sizeID uint) error
}

// MediaStore 媒体文件存储，返回对外可访问的相对路径
type MediaStore interface {
	Save(ctx context.Context, dir, name string, data []byte) (string, error)
	Remove(ctx context.Context, path string) error
	URL(path string) string
}

// ImageNormalizer 商品图片规范化
type ImageNormalizer interface {
	Normalize(name string, data []byte) (string, []byte, error)
}
