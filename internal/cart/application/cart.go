package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// CartService 购物车服务门面，整合命令服务和查询服务
type CartService struct {
	*CartCommandService
	*CartQueryService
}

// NewCartService 创建购物车服务门面实例
func NewCartService(
	repo domain.CartRepository,
	catalog domain.Catalog,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CartService {
	return &CartService{
		CartCommandService: NewCartCommandService(repo, catalog, publisher, m),
		CartQueryService:   NewCartQueryService(repo, catalog),
	}
}

// Totals 获取（必要时创建）购物车并返回明细与汇总
func (s *CartService) Totals(ctx context.Context, owner domain.Owner) (*CartView, error) {
	cart, err := s.GetOrCreateCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.View(ctx, cart)
}
