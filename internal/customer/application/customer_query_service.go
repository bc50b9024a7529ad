package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/customer/domain"
)

// CustomerQueryService 客户查询服务
type CustomerQueryService struct {
	repos Repositories
}

// NewCustomerQueryService 创建客户查询服务实例
func NewCustomerQueryService(repos Repositories) *CustomerQueryService {
	return &CustomerQueryService{repos: repos}
}

// CustomerOf 返回登录身份关联的客户档案，不存在时返回 nil
func (s *CustomerQueryService) CustomerOf(ctx context.Context, userID uint) (*domain.Customer, error) {
	return s.repos.Customers.GetByUserID(ctx, userID)
}

// AddressesOf 客户的地址，默认地址在前
func (s *CustomerQueryService) AddressesOf(ctx context.Context, customerID uint) ([]*domain.Address, error) {
	return s.repos.Addresses.ListByCustomer(ctx, customerID)
}

// CountCustomers 客户总数
func (s *CustomerQueryService) CountCustomers(ctx context.Context) (int64, error) {
	return s.repos.Customers.Count(ctx)
}
