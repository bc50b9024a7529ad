package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/pkg/errorsx"
)

// LowStockThreshold 低库存阈值，数量严格小于该值计为低库存
const LowStockThreshold = 5

// Product 商品
type Product struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Name        string          `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	CategoryID  uint            `gorm:"column:category_id;not null;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BrandID     *uint           `gorm:"column:brand_id;index" json:"brand_id"`
	Brand       *Brand          `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Colors      []Color         `gorm:"many2many:product_colors" json:"colors"`
	Image       string          `gorm:"column:image;type:varchar(255)" json:"image"`
}

func (Product) TableName() string { return "products" }

func (p *Product) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return errorsx.Validation("product name is required")
	}
	if p.Price.IsNegative() {
		return errorsx.Validation("price must not be negative")
	}
	if p.CategoryID == 0 {
		return errorsx.Validation("category is required")
	}
	return nil
}

// ColorIDs 返回商品关联的颜色 ID
func (p *Product) ColorIDs() []uint {
	ids := make([]uint, 0, len(p.Colors))
	for _, c := range p.Colors {
		ids = append(ids, c.ID)
	}
	return ids
}

// StockEntry 商品 x 颜色 x 尺码 的库存
type StockEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:idx_stock_triple" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ColorID   uint      `gorm:"column:color_id;not null;uniqueIndex:idx_stock_triple;index" json:"color_id"`
	Color     *Color    `gorm:"foreignKey:ColorID" json:"color,omitempty"`
	SizeID    uint      `gorm:"column:size_id;not null;uniqueIndex:idx_stock_triple;index" json:"size_id"`
	Size      *Size     `gorm:"foreignKey:SizeID" json:"size,omitempty"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
}

func (StockEntry) TableName() string { return "stock_entries" }

// StockKey 库存行的唯一键
type StockKey struct {
	ProductID uint
	ColorID   uint
	SizeID    uint
}

func (s *StockEntry) Key() StockKey {
	return StockKey{ProductID: s.ProductID, ColorID: s.ColorID, SizeID: s.SizeID}
}

func (s *StockEntry) Validate() error {
	if s.ProductID == 0 || s.ColorID == 0 || s.SizeID == 0 {
		return errorsx.Validation("product, color and size are required")
	}
	if s.Quantity < 0 {
		return errorsx.Validation("quantity must not be negative")
	}
	return nil
}

// ProductFilter 商品列表筛选条件，零值表示不筛选
type ProductFilter struct {
	CategoryID uint `form:"category" json:"category,omitempty"`
	ColorID    uint `form:"color" json:"color,omitempty"`
	SizeID     uint `form:"size" json:"size,omitempty"`
	BrandID    uint `form:"brand" json:"brand,omitempty"`
}
