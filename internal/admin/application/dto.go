package application

import (
	"github.com/wyfcoding/storefront/internal/admin/domain"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	contact "github.com/wyfcoding/storefront/internal/contact/domain"
)

// DashboardView 后台首页
type DashboardView struct {
	*catalogapp.Dashboard
	TotalCustomers int64                     `json:"total_customers"`
	RecentMessages []*contact.ContactMessage `json:"recent_messages"`
	RecentActions  []*domain.AdminAction     `json:"recent_actions"`
}

// StockOverview 库存总览
type StockOverview struct {
	Rows      []catalogapp.StockRow `json:"rows"`
	Threshold int                   `json:"low_stock_threshold"`
}
