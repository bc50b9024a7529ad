package application

import (
	"context"

	"github.com/samber/lo"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/errorsx"
	"github.com/wyfcoding/storefront/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// FeaturedCount 首页展示的最新商品数量
const FeaturedCount = 6

// RecentCount 后台首页展示的最近商品数量
const RecentCount = 5

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	repos Repositories
	media domain.MediaStore
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(repos Repositories, media domain.MediaStore) *CatalogQueryService {
	return &CatalogQueryService{repos: repos, media: media}
}

// ProductView 转换为带图片地址的展示结构
func (s *CatalogQueryService) ProductView(p *domain.Product) ProductView {
	return ToProductView(p, s.ImageURL)
}

// ImageURL 媒体相对路径转为访问地址
func (s *CatalogQueryService) ImageURL(path string) string {
	if s.media == nil {
		return path
	}
	return s.media.URL(path)
}

func (s *CatalogQueryService) views(products []*domain.Product) []ProductView {
	return lo.Map(products, func(p *domain.Product, _ int) ProductView { return s.ProductView(p) })
}

// FeaturedProducts 最新的若干商品
func (s *CatalogQueryService) FeaturedProducts(ctx context.Context) ([]ProductView, error) {
	products, err := s.repos.Products.Newest(ctx, FeaturedCount)
	if err != nil {
		return nil, err
	}
	return s.views(products), nil
}

// ListProducts 按筛选条件分页列出商品，并附带筛选项
func (s *CatalogQueryService) ListProducts(ctx context.Context, filter domain.ProductFilter, page, pageSize int) (*ProductPage, error) {
	pg := utils.NewPagination(page, pageSize, 0)

	products, total, err := s.repos.Products.Search(ctx, filter, pg.Offset(), pg.Limit())
	if err != nil {
		return nil, err
	}
	pg.SetTotal(total)

	options, err := s.FilterOptions(ctx)
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Products:   s.views(products),
		Pagination: pg,
		Selected:   filter,
		Options:    *options,
	}, nil
}

// FilterOptions 全部分类、颜色、尺码、品牌
func (s *CatalogQueryService) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	var (
		categories []*domain.Category
		colors     []*domain.Color
		sizes      []*domain.Size
		brands     []*domain.Brand
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		categories, err = s.repos.Categories.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		colors, err = s.repos.Colors.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		sizes, err = s.repos.Sizes.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		brands, err = s.repos.Brands.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &FilterOptions{
		Categories: lo.Map(categories, func(c *domain.Category, _ int) NamedRef { return NamedRef{ID: c.ID, Name: c.Name} }),
		Colors:     lo.Map(colors, func(c *domain.Color, _ int) ColorView { return toColorView(c) }),
		Sizes:      lo.Map(sizes, func(sz *domain.Size, _ int) SizeView { return toSizeView(sz) }),
		Brands:     lo.Map(brands, func(b *domain.Brand, _ int) NamedRef { return NamedRef{ID: b.ID, Name: b.Name} }),
	}, nil
}

// ProductDetail 商品详情
func (s *CatalogQueryService) ProductDetail(ctx context.Context, id uint) (*ProductDetail, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	stock, err := s.repos.Stock.ListByProduct(ctx, id, true)
	if err != nil {
		return nil, err
	}
	colors, err := s.repos.Colors.ListStockedForProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	sizes, err := s.repos.Sizes.ListStockedForProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ProductDetail{
		Product:         s.ProductView(product),
		Stock:           lo.Map(stock, func(e *domain.StockEntry, _ int) StockView { return toStockView(e) }),
		AvailableColors: lo.Map(colors, func(c *domain.Color, _ int) ColorView { return toColorView(c) }),
		AvailableSizes:  lo.Map(sizes, func(sz *domain.Size, _ int) SizeView { return toSizeView(sz) }),
	}, nil
}

// Dashboard 后台统计
func (s *CatalogQueryService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	var err error

	if d.TotalProducts, err = s.repos.Products.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalCategories, err = s.repos.Categories.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalColors, err = s.repos.Colors.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalBrands, err = s.repos.Brands.Count(ctx); err != nil {
		return nil, err
	}
	if d.LowStock, err = s.repos.Stock.CountBelow(ctx, domain.LowStockThreshold); err != nil {
		return nil, err
	}

	recent, err := s.repos.Products.Newest(ctx, RecentCount)
	if err != nil {
		return nil, err
	}
	d.RecentProducts = s.views(recent)
	return &d, nil
}

// StockOverview 全部库存行
func (s *CatalogQueryService) StockOverview(ctx context.Context) ([]StockRow, error) {
	entries, err := s.repos.Stock.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(entries, func(e *domain.StockEntry, _ int) StockRow {
		row := StockRow{StockView: toStockView(e)}
		if e.Product != nil {
			row.Product = NamedRef{ID: e.Product.ID, Name: e.Product.Name}
		}
		return row
	}), nil
}

// GetProduct 查询商品，不存在返回 NotFound
func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return found(s.repos.Products.GetByID(ctx, id))("product")
}

// GetColor 查询颜色，不存在返回 NotFound
func (s *CatalogQueryService) GetColor(ctx context.Context, id uint) (*domain.Color, error) {
	return found(s.repos.Colors.GetByID(ctx, id))("color")
}

// GetSize 查询尺码，不存在返回 NotFound
func (s *CatalogQueryService) GetSize(ctx context.Context, id uint) (*domain.Size, error) {
	return found(s.repos.Sizes.GetByID(ctx, id))("size")
}

// FindStock 查询库存行，不存在时返回 nil, nil
func (s *CatalogQueryService) FindStock(ctx context.Context, productID, colorID, sizeID uint) (*domain.StockEntry, error) {
	return s.repos.Stock.Find(ctx, productID, colorID, sizeID)
}

// StockLevels 批量查询库存数量，缺失的键数量为 0
func (s *CatalogQueryService) StockLevels(ctx context.Context, keys []domain.StockKey) (map[domain.StockKey]int, error) {
	productIDs := lo.Uniq(lo.Map(keys, func(k domain.StockKey, _ int) uint { return k.ProductID }))
	entries, err := s.repos.Stock.ListByProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	levels := make(map[domain.StockKey]int, len(keys))
	for _, k := range keys {
		levels[k] = 0
	}
	for _, e := range entries {
		if _, ok := levels[e.Key()]; ok {
			levels[e.Key()] = e.Quantity
		}
	}
	return levels, nil
}

func found[T any](item *T, err error) func(entity string) (*T, error) {
	return func(entity string) (*T, error) {
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, errorsx.NotFound(entity)
		}
		return item, nil
	}
}
