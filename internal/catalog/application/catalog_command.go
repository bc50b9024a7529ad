package application

import (
	"context"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/crud"
	"github.com/wyfcoding/storefront/pkg/errorsx"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/mq"
)

// Repositories 商品目录仓储集合
type Repositories struct {
	Categories domain.CategoryRepository
	Colors     domain.ColorRepository
	Sizes      domain.SizeRepository
	Brands     domain.BrandRepository
	Products   domain.ProductRepository
	Stock      domain.StockRepository
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	Categories *crud.Service[domain.Category]
	Colors     *crud.Service[domain.Color]
	Sizes      *crud.Service[domain.Size]
	Brands     *crud.Service[domain.Brand]
	Products   *crud.Service[domain.Product]
	Stock      *crud.Service[domain.StockEntry]

	repos      Repositories
	carts      domain.CartLineCleaner
	media      domain.MediaStore
	normalizer domain.ImageNormalizer
	publisher  domain.EventPublisher
	metrics    *metrics.Metrics
}

// NewCatalogCommandService 创建商品目录命令服务实例，carts 可为空
func NewCatalogCommandService(
	repos Repositories,
	carts domain.CartLineCleaner,
	media domain.MediaStore,
	normalizer domain.ImageNormalizer,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CatalogCommandService {
	s := &CatalogCommandService{
		repos:      repos,
		carts:      carts,
		media:      media,
		normalizer: normalizer,
		publisher:  publisher,
		metrics:    m,
	}

	s.Categories = crud.New("category", repos.Categories, crud.Hooks[domain.Category]{
		Validate:     (*domain.Category).Validate,
		BeforeDelete: s.guardCategory,
	})
	s.Colors = crud.New("color", repos.Colors, crud.Hooks[domain.Color]{
		Validate:     (*domain.Color).Validate,
		BeforeDelete: s.cascadeColor,
		Duplicate:    "a color with this name already exists",
	})
	s.Sizes = crud.New("size", repos.Sizes, crud.Hooks[domain.Size]{
		Validate:     (*domain.Size).Validate,
		BeforeDelete: s.cascadeSize,
		Duplicate:    "a size with this name already exists",
	})
	s.Brands = crud.New("brand", repos.Brands, crud.Hooks[domain.Brand]{
		Validate:     (*domain.Brand).Validate,
		BeforeDelete: s.releaseBrand,
		Changed:      s.brandChanged,
		Duplicate:    "a brand with this name already exists",
	})
	s.Products = crud.New("product", repos.Products, crud.Hooks[domain.Product]{
		Validate:     (*domain.Product).Validate,
		BeforeWrite:  s.checkProductRefs,
		AfterWrite:   s.syncProductColors,
		BeforeDelete: s.cascadeProduct,
		Changed:      s.productChanged,
	})
	s.Stock = crud.New("stock entry", repos.Stock, crud.Hooks[domain.StockEntry]{
		Validate:    (*domain.StockEntry).Validate,
		BeforeWrite: s.checkStockRefs,
		Changed:     s.stockChanged,
		Duplicate:   "stock for this product, color and size already exists",
	})
	return s
}

// StoreProductImage 规范化并保存商品图片；规范化失败时保存原图，只记录日志
func (s *CatalogCommandService) StoreProductImage(ctx context.Context, filename string, data []byte) (string, error) {
	name, out, err := s.normalizer.Normalize(filename, data)
	if err != nil {
		logger.Warn(ctx, "product image normalization failed, keeping original", "file", filename, "error", err)
		s.metrics.ImageNormalized(false)
		return s.media.Save(ctx, "products", filename, data)
	}
	s.metrics.ImageNormalized(true)
	return s.media.Save(ctx, "products", name, out)
}

// StoreBrandLogo 原样保存品牌 logo
func (s *CatalogCommandService) StoreBrandLogo(ctx context.Context, filename string, data []byte) (string, error) {
	return s.media.Save(ctx, "brands", filename, data)
}

// DiscardMedia 删除已保存但最终未被引用的媒体文件
func (s *CatalogCommandService) DiscardMedia(ctx context.Context, rel string) {
	s.removeFile(ctx, rel)
}

func (s *CatalogCommandService) guardCategory(ctx context.Context, c *domain.Category) error {
	n, err := s.repos.Products.CountByCategory(ctx, c.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errorsx.Validation("cannot delete category %q: %d products still use it", c.Name, n)
	}
	return nil
}

func (s *CatalogCommandService) cascadeColor(ctx context.Context, c *domain.Color) error {
	n, err := s.repos.Stock.CountByColor(ctx, c.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errorsx.Validation("cannot delete color %q: %d stock entries still use it", c.Name, n)
	}
	if s.carts != nil {
		if err := s.carts.DeleteLinesByColor(ctx, c.ID); err != nil {
			return err
		}
	}
	return s.repos.Products.RemoveColor(ctx, c.ID)
}

func (s *CatalogCommandService) cascadeSize(ctx context.Context, sz *domain.Size) error {
	n, err := s.repos.Stock.CountBySize(ctx, sz.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return errorsx.Validation("cannot delete size %q: %d stock entries still use it", sz.Name, n)
	}
	if s.carts != nil {
		return s.carts.DeleteLinesBySize(ctx, sz.ID)
	}
	return nil
}

func (s *CatalogCommandService) releaseBrand(ctx context.Context, b *domain.Brand) error {
	return s.repos.Products.ClearBrand(ctx, b.ID)
}

func (s *CatalogCommandService) brandChanged(ctx context.Context, op crud.Op, b *domain.Brand) {
	if op == crud.OpDeleted {
		s.removeFile(ctx, b.Logo)
	}
}

func (s *CatalogCommandService) checkProductRefs(ctx context.Context, p *domain.Product) error {
	category, err := s.repos.Categories.GetByID(ctx, p.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return errorsx.NotFound("category")
	}
	if p.BrandID != nil {
		brand, err := s.repos.Brands.GetByID(ctx, *p.BrandID)
		if err != nil {
			return err
		}
		if brand == nil {
			return errorsx.NotFound("brand")
		}
	}
	ids := p.ColorIDs()
	if len(ids) > 0 {
		colors, err := s.repos.Colors.ListByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if len(colors) != len(lo.Uniq(ids)) {
			return errorsx.NotFound("color")
		}
	}
	// 关联通过 AfterWrite 单独维护
	p.Category = nil
	p.Brand = nil
	return nil
}

func (s *CatalogCommandService) syncProductColors(ctx context.Context, p *domain.Product) error {
	return s.repos.Products.ReplaceColors(ctx, p.ID, p.ColorIDs())
}

func (s *CatalogCommandService) cascadeProduct(ctx context.Context, p *domain.Product) error {
	if err := s.repos.Stock.DeleteByProduct(ctx, p.ID); err != nil {
		return err
	}
	if s.carts != nil {
		if err := s.carts.DeleteLinesByProduct(ctx, p.ID); err != nil {
			return err
		}
	}
	return s.repos.Products.ReplaceColors(ctx, p.ID, nil)
}

func (s *CatalogCommandService) checkStockRefs(ctx context.Context, e *domain.StockEntry) error {
	product, err := s.repos.Products.GetByID(ctx, e.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return errorsx.NotFound("product")
	}
	color, err := s.repos.Colors.GetByID(ctx, e.ColorID)
	if err != nil {
		return err
	}
	if color == nil {
		return errorsx.NotFound("color")
	}
	size, err := s.repos.Sizes.GetByID(ctx, e.SizeID)
	if err != nil {
		return err
	}
	if size == nil {
		return errorsx.NotFound("size")
	}
	e.Product, e.Color, e.Size = nil, nil, nil
	return nil
}

func (s *CatalogCommandService) productChanged(ctx context.Context, op crud.Op, p *domain.Product) {
	if op == crud.OpDeleted {
		s.removeFile(ctx, p.Image)
	}
	s.publish(ctx, domain.TopicProductChanged, p.ID, domain.ProductChangedEvent{
		ProductID:  p.ID,
		Op:         string(op),
		Name:       p.Name,
		Price:      p.Price.StringFixed(2),
		CategoryID: p.CategoryID,
		Timestamp:  time.Now(),
	})
}

func (s *CatalogCommandService) stockChanged(ctx context.Context, op crud.Op, e *domain.StockEntry) {
	s.publish(ctx, domain.TopicStockChanged, e.ProductID, domain.StockChangedEvent{
		StockID:   e.ID,
		Op:        string(op),
		ProductID: e.ProductID,
		ColorID:   e.ColorID,
		SizeID:    e.SizeID,
		Quantity:  e.Quantity,
		Timestamp: time.Now(),
	})
}

func (s *CatalogCommandService) publish(ctx context.Context, topic string, id uint, event any) {
	mq.Emit(ctx, s.publisher, topic, strconv.FormatUint(uint64(id), 10), event)
}

func (s *CatalogCommandService) removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.media.Remove(ctx, path); err != nil {
		logger.Warn(ctx, "failed to remove media file", "path", path, "error", err)
	}
}
