package application

import (
	"io"
	"mime/multipart"

	"github.com/shopspring/decimal"
	customerapp "github.com/wyfcoding/storefront/internal/customer/application"
	customer "github.com/wyfcoding/storefront/internal/customer/domain"
	"github.com/wyfcoding/storefront/pkg/errorsx"
)

// MaxUploadSize 单个上传文件的大小上限
const MaxUploadSize = 10 << 20

type CategoryForm struct {
	Name        string `form:"name" json:"name" binding:"required,max=100"`
	Description string `form:"description" json:"description" input:"textarea"`
}

type ColorForm struct {
	Name      string `form:"name" json:"name" binding:"required,max=50"`
	HexCode   string `form:"hex_code" json:"hex_code" input:"color"`
	SortOrder int    `form:"sort_order" json:"sort_order"`
}

type SizeForm struct {
	Name         string `form:"name" json:"name" binding:"required,max=20"`
	Abbreviation string `form:"abbreviation" json:"abbreviation" binding:"required,max=10"`
	SortOrder    int    `form:"sort_order" json:"sort_order"`
}

type BrandForm struct {
	Name        string                `form:"name" json:"name" binding:"required,max=100"`
	Website     string                `form:"website" json:"website" input:"url"`
	Description string                `form:"description" json:"description" input:"textarea"`
	Logo        *multipart.FileHeader `form:"logo" json:"-" input:"file"`
}

// ProductForm 商品表单，图片随 multipart 表单上传
type ProductForm struct {
	Name        string                `form:"name" json:"name" binding:"required,max=200"`
	Description string                `form:"description" json:"description" input:"textarea"`
	Price       string                `form:"price" json:"price" binding:"required"`
	CategoryID  uint                  `form:"category_id" json:"category_id" label:"Category" binding:"required"`
	BrandID     *uint                 `form:"brand_id" json:"brand_id" label:"Brand"`
	ColorIDs    []uint                `form:"color_ids" json:"color_ids" label:"Colors"`
	Image       *multipart.FileHeader `form:"image" json:"-" input:"file"`
}

type StockForm struct {
	ProductID uint `form:"product_id" json:"product_id" label:"Product" binding:"required"`
	ColorID   uint `form:"color_id" json:"color_id" label:"Color" binding:"required"`
	SizeID    uint `form:"size_id" json:"size_id" label:"Size" binding:"required"`
	Quantity  *int `form:"quantity" json:"quantity" binding:"required"`
}

type GroupForm struct {
	Name     string `form:"name" json:"name" binding:"required,max=100"`
	Discount string `form:"discount" json:"discount" label:"Discount (%)" binding:"required"`
}

type CustomerForm struct {
	Title         customer.Title `form:"title" json:"title"`
	Name          string         `form:"name" json:"name" binding:"required,max=100"`
	Surname       string         `form:"surname" json:"surname"`
	Email         string         `form:"email" json:"email" binding:"required"`
	GroupID       *uint          `form:"group_id" json:"group_id" label:"Group"`
	TotalSales    string         `form:"total_sales" json:"total_sales"`
	IsActive      bool           `form:"is_active" json:"is_active" label:"Active"`
	Newsletter    bool           `form:"newsletter" json:"newsletter"`
	PartnerOffers bool           `form:"partner_offers" json:"partner_offers"`
}

type AddressForm struct {
	CustomerID uint `form:"customer_id" json:"customer_id" label:"Customer" binding:"required"`
	customerapp.AddressInput
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, errorsx.Validation("%s must be a number", field)
	}
	return d.Round(2), nil
}

// optionalID 表单中的空选项会被绑定为 0
func optionalID(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > MaxUploadSize {
		return nil, errorsx.Validation("file %q exceeds the %d MB limit", fh.Filename, MaxUploadSize>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, errorsx.Wrap(err, "open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return nil, errorsx.Wrap(err, "read upload")
	}
	if len(data) > MaxUploadSize {
		return nil, errorsx.Validation("file %q exceeds the %d MB limit", fh.Filename, MaxUploadSize>>20)
	}
	return data, nil
}
