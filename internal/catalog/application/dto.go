package application

import (
	"time"

	"github.com/samber/lo"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// NamedRef 只含 ID 与名称的引用
type NamedRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ColorView struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	HexCode string `json:"hex_code"`
}

type SizeView struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// ProductView 对外展示的商品，价格固定两位小数
type ProductView struct {
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       string      `json:"price"`
	Category    *NamedRef   `json:"category,omitempty"`
	Brand       *NamedRef   `json:"brand,omitempty"`
	Colors      []ColorView `json:"colors"`
	Image       string      `json:"image,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type StockView struct {
	ID       uint      `json:"id"`
	Color    ColorView `json:"color"`
	Size     SizeView  `json:"size"`
	Quantity int       `json:"quantity"`
}

// StockRow 库存总览中的一行
type StockRow struct {
	StockView
	Product NamedRef `json:"product"`
}

// ProductDetail 商品详情：只列出有货的组合，可选颜色与尺码来自全部库存行
type ProductDetail struct {
	Product         ProductView `json:"product"`
	Stock           []StockView `json:"stock"`
	AvailableColors []ColorView `json:"available_colors"`
	AvailableSizes  []SizeView  `json:"available_sizes"`
}

// FilterOptions 商品列表页的筛选项
type FilterOptions struct {
	Categories []NamedRef  `json:"categories"`
	Colors     []ColorView `json:"colors"`
	Sizes      []SizeView  `json:"sizes"`
	Brands     []NamedRef  `json:"brands"`
}

type ProductPage struct {
	Products   []ProductView        `json:"products"`
	Pagination *utils.Pagination    `json:"pagination"`
	Selected   domain.ProductFilter `json:"selected"`
	Options    FilterOptions        `json:"options"`
}

// Dashboard 管理后台首页统计
type Dashboard struct {
	TotalProducts   int64         `json:"total_products"`
	TotalCategories int64         `json:"total_categories"`
	TotalColors     int64         `json:"total_colors"`
	TotalBrands     int64         `json:"total_brands"`
	LowStock        int64         `json:"low_stock"`
	RecentProducts  []ProductView `json:"recent_products"`
}

func toColorView(c *domain.Color) ColorView {
	return ColorView{ID: c.ID, Name: c.Name, HexCode: c.HexCode}
}

func toSizeView(s *domain.Size) SizeView {
	return SizeView{ID: s.ID, Name: s.Name, Abbreviation: s.Abbreviation}
}

func toStockView(e *domain.StockEntry) StockView {
	v := StockView{ID: e.ID, Quantity: e.Quantity}
	if e.Color != nil {
		v.Color = toColorView(e.Color)
	}
	if e.Size != nil {
		v.Size = toSizeView(e.Size)
	}
	return v
}

// ToProductView 转换为展示结构，imageURL 负责把存储路径转为访问地址
func ToProductView(p *domain.Product, imageURL func(string) string) ProductView {
	v := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Colors:      lo.Map(p.Colors, func(c domain.Color, _ int) ColorView { return toColorView(&c) }),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if imageURL != nil {
		v.Image = imageURL(p.Image)
	}
	if p.Category != nil {
		v.Category = &NamedRef{ID: p.Category.ID, Name: p.Category.Name}
	}
	if p.Brand != nil {
		v.Brand = &NamedRef{ID: p.Brand.ID, Name: p.Brand.Name}
	}
	return v
}
