package application

import "github.com/wyfcoding/storefront/internal/cart/domain"

// LineView 购物车行展示结构
type LineView struct {
	ID             uint   `json:"id"`
	ProductID      uint   `json:"product_id"`
	Name           string `json:"name"`
	Image          string `json:"image,omitempty"`
	Color          string `json:"color"`
	ColorHex       string `json:"color_hex"`
	Size           string `json:"size"`
	Price          string `json:"price"`
	Quantity       int    `json:"quantity"`
	Subtotal       string `json:"subtotal"`
	AvailableStock int    `json:"available_stock"`
}

// CartView 购物车展示结构
type CartView struct {
	Items     []LineView `json:"items"`
	ItemCount int        `json:"item_count"`
	Total     string     `json:"total"`
}

// Summary 变更后的购物车汇总
type Summary struct {
	ItemCount int    `json:"item_count"`
	Total     string `json:"total"`
}

// LineUpdate 修改数量后的结果
type LineUpdate struct {
	Summary
	Subtotal string `json:"subtotal"`
}

func toSummary(t domain.Totals) Summary {
	return Summary{ItemCount: t.ItemCount, Total: t.Total.StringFixed(2)}
}

func toLineView(l *domain.CartLine, available int, imageURL func(string) string) LineView {
	v := LineView{
		ID:             l.ID,
		ProductID:      l.ProductID,
		Price:          l.Price().StringFixed(2),
		Quantity:       l.Quantity,
		Subtotal:       l.Subtotal().StringFixed(2),
		AvailableStock: available,
	}
	if l.Product != nil {
		v.Name = l.Product.Name
		v.Image = imageURL(l.Product.Image)
	}
	if l.Color != nil {
		v.Color = l.Color.Name
		v.ColorHex = l.Color.HexCode
	}
	if l.Size != nil {
		v.Size = l.Size.Abbreviation
	}
	return v
}
