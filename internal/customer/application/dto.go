package application

import (
	"strings"

	authdomain "github.com/wyfcoding/storefront/internal/auth/domain"
	"github.com/wyfcoding/storefront/internal/customer/domain"
	"github.com/wyfcoding/storefront/pkg/errorsx"
)

const minPasswordLength = 8

// RegisterCommand 前台注册命令
type RegisterCommand struct {
	Username        string       `form:"username" json:"username" binding:"required"`
	Email           string       `form:"email" json:"email" binding:"required"`
	Password        string       `form:"password1" json:"password1" binding:"required"`
	PasswordConfirm string       `form:"password2" json:"password2" binding:"required"`
	Title           domain.Title `form:"title" json:"title"`
	FirstName       string       `form:"first_name" json:"first_name" binding:"required"`
	LastName        string       `form:"last_name" json:"last_name"`
	Newsletter      bool         `form:"newsletter" json:"newsletter"`
	PartnerOffers   bool         `form:"partner_offers" json:"partner_offers"`
	Remember        bool         `form:"remember" json:"remember"`
}

func (c *RegisterCommand) validate() error {
	c.Username = strings.TrimSpace(c.Username)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Username == "" {
		return errorsx.Validation("username is required")
	}
	if err := domain.ValidateEmail(c.Email); err != nil {
		return err
	}
	if c.Password != c.PasswordConfirm {
		return errorsx.Validation("the two password fields didn't match")
	}
	if len(c.Password) < minPasswordLength {
		return errorsx.Validation("password must be at least %d characters", minPasswordLength)
	}
	if c.Title == "" {
		c.Title = domain.TitleSR
	}
	if !c.Title.Valid() {
		return errorsx.Validation("invalid title %q", c.Title)
	}
	return nil
}

// ProfileUpdate 个人资料修改
type ProfileUpdate struct {
	Title         domain.Title `form:"title" json:"title"`
	Name          string       `form:"name" json:"name" binding:"required"`
	Surname       string       `form:"surname" json:"surname"`
	Newsletter    bool         `form:"newsletter" json:"newsletter"`
	PartnerOffers bool         `form:"partner_offers" json:"partner_offers"`
}

func (u ProfileUpdate) apply(c *domain.Customer) {
	if u.Title != "" {
		c.Title = u.Title
	}
	c.Name = u.Name
	c.Surname = u.Surname
	c.Newsletter = u.Newsletter
	c.PartnerOffers = u.PartnerOffers
}

// AddressInput 地址表单
type AddressInput struct {
	Name       string `form:"name" json:"name" binding:"required"`
	Surname    string `form:"surname" json:"surname" binding:"required"`
	Street     string `form:"street" json:"street" binding:"required"`
	PostalCode string `form:"postal_code" json:"postal_code" binding:"required"`
	City       string `form:"city" json:"city" binding:"required"`
	Country    string `form:"country" json:"country" binding:"required"`
	Phone      string `form:"phone" json:"phone"`
	IsDefault  bool   `form:"is_default" json:"is_default"`
}

// Apply 将表单写入地址
func (in AddressInput) Apply(a *domain.Address) {
	a.Name = in.Name
	a.Surname = in.Surname
	a.Street = in.Street
	a.PostalCode = in.PostalCode
	a.City = in.City
	a.Country = in.Country
	a.Phone = in.Phone
	a.IsDefault = in.IsDefault
}

// Profile 个人中心视图
type Profile struct {
	User      *authdomain.User  `json:"user"`
	Customer  *domain.Customer  `json:"customer"`
	Addresses []*domain.Address `json:"addresses"`
}
