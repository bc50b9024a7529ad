package application

// CatalogService 商品目录应用服务门面，组合命令与查询
type CatalogService struct {
	*CatalogCommandService
	*CatalogQueryService
}

func NewCatalogService(cmd *CatalogCommandService, query *CatalogQueryService) *CatalogService {
	return &CatalogService{CatalogCommandService: cmd, CatalogQueryService: query}
}
