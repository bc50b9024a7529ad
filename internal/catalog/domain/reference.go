package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/wyfcoding/storefront/pkg/errorsx"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category 商品分类
type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errorsx.Validation("category name is required")
	}
	return nil
}

// Color 颜色，按 (SortOrder, Name) 展示
type Color struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:name;type:varchar(50);uniqueIndex;not null" json:"name"`
	HexCode   string    `gorm:"column:hex_code;type:varchar(7);not null" json:"hex_code"`
	SortOrder int       `gorm:"column:sort_order;not null" json:"sort_order"`
}

func (Color) TableName() string { return "colors" }

func (c *Color) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errorsx.Validation("color name is required")
	}
	if c.HexCode == "" {
		c.HexCode = "#000000"
	}
	if !hexColorPattern.MatchString(c.HexCode) {
		return errorsx.Validation("hex code must match #RRGGBB")
	}
	if c.SortOrder < 0 {
		return errorsx.Validation("sort order must not be negative")
	}
	return nil
}

// Size 尺码
type Size struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"column:name;type:varchar(20);uniqueIndex;not null" json:"name"`
	Abbreviation string    `gorm:"column:abbreviation;type:varchar(10);not null" json:"abbreviation"`
	SortOrder    int       `gorm:"column:sort_order;not null" json:"sort_order"`
}

func (Size) TableName() string { return "sizes" }

func (s *Size) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Abbreviation = strings.TrimSpace(s.Abbreviation)
	if s.Name == "" || s.Abbreviation == "" {
		return errorsx.Validation("size name and abbreviation are required")
	}
	if s.SortOrder < 0 {
		return errorsx.Validation("sort order must not be negative")
	}
	return nil
}

// Brand 品牌
type Brand struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	Logo        string    `gorm:"column:logo;type:varchar(255)" json:"logo"`
	Website     string    `gorm:"column:website;type:varchar(255)" json:"website"`
	Description string    `gorm:"column:description;type:text" json:"description"`
}

func (Brand) TableName() string { return "brands" }

func (b *Brand) Validate() error {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return errorsx.Validation("brand name is required")
	}
	return nil
}
