package application

import (
	"github.com/wyfcoding/storefront/internal/customer/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// CustomerService 客户服务门面，整合命令服务和查询服务
type CustomerService struct {
	*CustomerCommandService
	*CustomerQueryService
}

// NewCustomerService 创建客户服务门面实例
func NewCustomerService(
	repos Repositories,
	identities Identities,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
) *CustomerService {
	return &CustomerService{
		CustomerCommandService: NewCustomerCommandService(repos, identities, publisher, m),
		CustomerQueryService:   NewCustomerQueryService(repos),
	}
}
