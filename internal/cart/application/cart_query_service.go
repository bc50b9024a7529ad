package application

import (
	"context"

	"github.com/samber/lo"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
)

// CartQueryService 购物车查询服务
type CartQueryService struct {
	repo    domain.CartRepository
	catalog domain.Catalog
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(repo domain.CartRepository, catalog domain.Catalog) *CartQueryService {
	return &CartQueryService{repo: repo, catalog: catalog}
}

// View 购物车明细与汇总，每行附带当前可用库存
func (s *CartQueryService) View(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	lines, err := s.repo.ListLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	keys := lo.Map(lines, func(l *domain.CartLine, _ int) catalog.StockKey {
		return catalog.StockKey{ProductID: l.ProductID, ColorID: l.ColorID, SizeID: l.SizeID}
	})
	levels, err := s.catalog.StockLevels(ctx, keys)
	if err != nil {
		return nil, err
	}

	items := make([]LineView, 0, len(lines))
	for i, l := range lines {
		items = append(items, toLineView(l, levels[keys[i]], s.catalog.ImageURL))
	}

	totals := domain.ComputeTotals(lines)
	return &CartView{
		Items:     items,
		ItemCount: totals.ItemCount,
		Total:     totals.Total.StringFixed(2),
	}, nil
}

// Peek 已有购物车的商品件数，不会创建购物车
func (s *CartQueryService) Peek(ctx context.Context, owner domain.Owner) (int, error) {
	if owner.Validate() != nil {
		return 0, nil
	}
	cart, err := s.repo.GetByOwner(ctx, owner)
	if err != nil || cart == nil {
		return 0, err
	}
	return s.repo.CountItems(ctx, cart.ID)
}
