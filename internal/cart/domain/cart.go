package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/errorsx"
)

// Owner 购物车归属：登录用户或匿名会话，二者恰好其一
type Owner struct {
	UserID     uint
	SessionKey string
}

// Validate 校验归属恰好指定一方
func (o Owner) Validate() error {
	if (o.UserID == 0) == (o.SessionKey == "") {
		return errorsx.Validation("cart owner must be either a user or a session")
	}
	return nil
}

// IsAnonymous 是否匿名购物车
func (o Owner) IsAnonymous() bool { return o.UserID == 0 }

// Cart 购物车
type Cart struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	UserID     *uint      `gorm:"column:user_id;uniqueIndex" json:"user_id,omitempty"`
	SessionKey *string    `gorm:"column:session_key;type:varchar(64);uniqueIndex" json:"-"`
	Lines      []CartLine `gorm:"foreignKey:CartID" json:"lines,omitempty"`
}

func (Cart) TableName() string { return "carts" }

// NewCart 按归属创建购物车
func NewCart(owner Owner) *Cart {
	c := &Cart{}
	if owner.IsAnonymous() {
		key := owner.SessionKey
		c.SessionKey = &key
	} else {
		id := owner.UserID
		c.UserID = &id
	}
	return c
}

// CartLine 购物车行，同一购物车内 (商品, 颜色, 尺码) 唯一
type CartLine struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	CartID    uint             `gorm:"column:cart_id;not null;uniqueIndex:idx_cart_line" json:"cart_id"`
	ProductID uint             `gorm:"column:product_id;not null;uniqueIndex:idx_cart_line;index" json:"product_id"`
	Product   *catalog.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ColorID   uint             `gorm:"column:color_id;not null;uniqueIndex:idx_cart_line;index" json:"color_id"`
	Color     *catalog.Color   `gorm:"foreignKey:ColorID" json:"color,omitempty"`
	SizeID    uint             `gorm:"column:size_id;not null;uniqueIndex:idx_cart_line;index" json:"size_id"`
	Size      *catalog.Size    `gorm:"foreignKey:SizeID" json:"size,omitempty"`
	Quantity  int              `gorm:"column:quantity;not null" json:"quantity"`
	AddedAt   time.Time        `gorm:"column:added_at;autoCreateTime" json:"added_at"`
}

func (CartLine) TableName() string { return "cart_lines" }

// Price 商品单价，未加载商品时为零
func (l *CartLine) Price() decimal.Decimal {
	if l.Product == nil {
		return decimal.Zero
	}
	return l.Product.Price
}

// Subtotal 单价 x 数量，保留两位小数
func (l *CartLine) Subtotal() decimal.Decimal {
	return l.Price().Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Totals 购物车汇总，每次按当前行计算，不落库
type Totals struct {
	ItemCount int
	Total     decimal.Decimal
}

// ComputeTotals 汇总件数与金额
func ComputeTotals(lines []*CartLine) Totals {
	t := Totals{Total: decimal.Zero}
	for _, l := range lines {
		t.ItemCount += l.Quantity
		t.Total = t.Total.Add(l.Subtotal())
	}
	return t
}

// ErrInsufficientStock 库存不足，作为校验错误的底层原因
var ErrInsufficientStock = errors.New("insufficient stock")

// InsufficientStock 创建库存不足的校验错误
func InsufficientStock(format string, args ...any) error {
	e := errorsx.Validation(format, args...)
	e.Base.Cause = ErrInsufficientStock
	return e
}
