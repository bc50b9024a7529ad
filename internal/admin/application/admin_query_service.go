package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/admin/domain"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	contactapp "github.com/wyfcoding/storefront/internal/contact/application"
	customerapp "github.com/wyfcoding/storefront/internal/customer/application"
	"golang.org/x/sync/errgroup"
)

// RecentLimit 首页最近留言与操作的条数
const RecentLimit = 5

// AdminQueryService 后台查询服务
type AdminQueryService struct {
	catalogs  *catalogapp.CatalogService
	customers *customerapp.CustomerService
	contact   *contactapp.ContactService
	actions   domain.ActionRepository
}

// NewAdminQueryService 创建后台查询服务实例
func NewAdminQueryService(
	catalogs *catalogapp.CatalogService,
	customers *customerapp.CustomerService,
	contact *contactapp.ContactService,
	actions domain.ActionRepository,
) *AdminQueryService {
	return &AdminQueryService{
		catalogs:  catalogs,
		customers: customers,
		contact:   contact,
		actions:   actions,
	}
}

// Dashboard 商品目录统计、客户数、最近留言与最近操作
func (s *AdminQueryService) Dashboard(ctx context.Context) (*DashboardView, error) {
	var view DashboardView
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		view.Dashboard, err = s.catalogs.Dashboard(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		view.TotalCustomers, err = s.customers.CountCustomers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		view.RecentMessages, err = s.contact.Recent(ctx, RecentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		view.RecentActions, err = s.actions.Recent(ctx, RecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &view, nil
}

// StockOverview 全部库存行
func (s *AdminQueryService) StockOverview(ctx context.Context) (*StockOverview, error) {
	rows, err := s.catalogs.StockOverview(ctx)
	if err != nil {
		return nil, err
	}
	return &StockOverview{Rows: rows, Threshold: catalog.LowStockThreshold}, nil
}
