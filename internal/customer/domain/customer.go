package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/storefront/pkg/errorsx"
)

// Title 客户称谓
type Title string

const (
	TitleSR   Title = "SR"
	TitleSRA  Title = "SRA"
	TitleSRTA Title = "SRTA"
	TitleDR   Title = "DR"
	TitleDRA  Title = "DRA"
)

// Titles 全部称谓及其展示文本
var Titles = []Title{TitleSR, TitleSRA, TitleSRTA, TitleDR, TitleDRA}

var titleLabels = map[Title]string{
	TitleSR:   "Mr.",
	TitleSRA:  "Mrs.",
	TitleSRTA: "Miss",
	TitleDR:   "Dr.",
	TitleDRA:  "Dra.",
}

func (t Title) Valid() bool { return lo.Contains(Titles, t) }

func (t Title) Label() string { return titleLabels[t] }

// CustomerGroup 客户分组，Discount 为折扣百分比
type CustomerGroup struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Name      string          `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Discount  decimal.Decimal `gorm:"column:discount;type:decimal(5,2);not null" json:"discount"`
}

func (CustomerGroup) TableName() string { return "customer_groups" }

func (g *CustomerGroup) Validate() error {
	g.Name = strings.TrimSpace(g.Name)
	if g.Name == "" {
		return errorsx.Validation("group name is required")
	}
	if g.Discount.IsNegative() || g.Discount.GreaterThan(decimal.NewFromInt(100)) {
		return errorsx.Validation("discount must be between 0 and 100")
	}
	g.Discount = g.Discount.Round(2)
	return nil
}

// Customer 客户档案，UserID 关联登录身份，后台创建的客户可以没有身份
type Customer struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	UserID        *uint           `gorm:"column:user_id;uniqueIndex" json:"user_id,omitempty"`
	Title         Title           `gorm:"column:title;type:varchar(4);not null" json:"title"`
	Name          string          `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Surname       string          `gorm:"column:surname;type:varchar(100);not null" json:"surname"`
	Email         string          `gorm:"column:email;type:varchar(254);uniqueIndex;not null" json:"email"`
	GroupID       *uint           `gorm:"column:group_id;index" json:"group_id,omitempty"`
	Group         *CustomerGroup  `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	TotalSales    decimal.Decimal `gorm:"column:total_sales;type:decimal(12,2);not null" json:"total_sales"`
	IsActive      bool            `gorm:"column:is_active;not null" json:"is_active"`
	Newsletter    bool            `gorm:"column:newsletter;not null" json:"newsletter"`
	PartnerOffers bool            `gorm:"column:partner_offers;not null" json:"partner_offers"`
	RegisteredAt  time.Time       `gorm:"column:registered_at;not null" json:"registered_at"`
	LastVisit     *time.Time      `gorm:"column:last_visit" json:"last_visit,omitempty"`
}

func (Customer) TableName() string { return "customers" }

// NewCustomer 创建启用状态的客户
func NewCustomer(title Title, name, surname, email string) *Customer {
	return &Customer{
		Title:        title,
		Name:         name,
		Surname:      surname,
		Email:        email,
		IsActive:     true,
		RegisteredAt: time.Now(),
	}
}

func (c *Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Surname = strings.TrimSpace(c.Surname)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Title == "" {
		c.Title = TitleSR
	}
	if !c.Title.Valid() {
		return errorsx.Validation("invalid title %q", c.Title)
	}
	if c.Name == "" {
		return errorsx.Validation("name is required")
	}
	if err := ValidateEmail(c.Email); err != nil {
		return err
	}
	if c.TotalSales.IsNegative() {
		return errorsx.Validation("total sales must not be negative")
	}
	if c.RegisteredAt.IsZero() {
		c.RegisteredAt = time.Now()
	}
	return nil
}

// FullName 称谓与姓名
func (c *Customer) FullName() string {
	return strings.TrimSpace(strings.Join([]string{c.Title.Label(), c.Name, c.Surname}, " "))
}

// ValidateEmail 校验邮箱格式
func ValidateEmail(email string) error {
	if email == "" {
		return errorsx.Validation("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errorsx.Validation("enter a valid email address")
	}
	return nil
}

// Address 收货地址
type Address struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CustomerID uint      `gorm:"column:customer_id;index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"-"`
	Name       string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Surname    string    `gorm:"column:surname;type:varchar(100);not null" json:"surname"`
	Street     string    `gorm:"column:street;type:varchar(255);not null" json:"street"`
	PostalCode string    `gorm:"column:postal_code;type:varchar(20);not null" json:"postal_code"`
	City       string    `gorm:"column:city;type:varchar(100);not null" json:"city"`
	Country    string    `gorm:"column:country;type:varchar(100);not null" json:"country"`
	Phone      string    `gorm:"column:phone;type:varchar(30)" json:"phone"`
	IsDefault  bool      `gorm:"column:is_default;not null" json:"is_default"`
}

func (Address) TableName() string { return "addresses" }

func (a *Address) Validate() error {
	fields := []*string{&a.Name, &a.Surname, &a.Street, &a.PostalCode, &a.City, &a.Country, &a.Phone}
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
	if a.CustomerID == 0 {
		return errorsx.Validation("customer is required")
	}
	if a.Name == "" || a.Surname == "" {
		return errorsx.Validation("recipient name and surname are required")
	}
	if a.Street == "" || a.PostalCode == "" || a.City == "" || a.Country == "" {
		return errorsx.Validation("street, postal code, city and country are required")
	}
	return nil
}
