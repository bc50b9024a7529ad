package domain

import (
	"context"

	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
)

// CartRepository 购物车仓储，查询类方法在记录不存在时返回 nil, nil
type CartRepository interface {
	catalog.CartLineCleaner

	GetByOwner(ctx context.Context, owner Owner) (*Cart, error)
	Create(ctx context.Context, cart *Cart) error
	// ListLines 预加载商品、颜色、尺码，按加入时间排序
	ListLines(ctx context.Context, cartID uint) ([]*CartLine, error)
	FindLine(ctx context.Context, cartID, lineID uint) (*CartLine, error)
	FindLineByItem(ctx context.Context, cartID, productID, colorID, sizeID uint) (*CartLine, error)
	SaveLine(ctx context.Context, line *CartLine) error
	DeleteLine(ctx context.Context, lineID uint) error
	ClearLines(ctx context.Context, cartID uint) error
	CountItems(ctx context.Context, cartID uint) (int, error)
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Catalog 购物车依赖的商品目录查询能力
type Catalog interface {
	GetProduct(ctx context.Context, id uint) (*catalog.Product, error)
	GetColor(ctx context.Context, id uint) (*catalog.Color, error)
	GetSize(ctx context.Context, id uint) (*catalog.Size, error)
	// FindStock 不存在时返回 nil, nil
	FindStock(ctx context.Context, productID, colorID, sizeID uint) (*catalog.StockEntry, error)
	// StockLevels 批量查询库存数量，缺失的键数量为 0
	StockLevels(ctx context.Context, keys []catalog.StockKey) (map[catalog.StockKey]int, error)
	ImageURL(path string) string
}
