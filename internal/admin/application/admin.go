package application

import (
	"github.com/wyfcoding/storefront/internal/admin/domain"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	contactapp "github.com/wyfcoding/storefront/internal/contact/application"
	customerapp "github.com/wyfcoding/storefront/internal/customer/application"
)

// AdminService 管理后台服务门面，整合命令服务、查询服务与实体描述
type AdminService struct {
	*AdminCommandService
	*AdminQueryService
	Resources *Resources
}

// NewAdminService 创建管理后台服务门面实例
func NewAdminService(
	catalogs *catalogapp.CatalogService,
	customers *customerapp.CustomerService,
	contact *contactapp.ContactService,
	actions domain.ActionRepository,
	publisher domain.EventPublisher,
) *AdminService {
	cmd := NewAdminCommandService(actions, publisher)
	return &AdminService{
		AdminCommandService: cmd,
		AdminQueryService:   NewAdminQueryService(catalogs, customers, contact, actions),
		Resources:           NewResources(catalogs, customers, cmd),
	}
}
