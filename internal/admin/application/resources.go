package application

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	customerapp "github.com/wyfcoding/storefront/internal/customer/application"
	customer "github.com/wyfcoding/storefront/internal/customer/domain"
	"github.com/wyfcoding/storefront/pkg/form"
)

// Resources 后台全部可管理实体
type Resources struct {
	Categories *Resource[catalog.Category, CategoryForm]
	Colors     *Resource[catalog.Color, ColorForm]
	Brands     *Resource[catalog.Brand, BrandForm]
	Sizes      *Resource[catalog.Size, SizeForm]
	Products   *Resource[catalog.Product, ProductForm]
	Stock      *Resource[catalog.StockEntry, StockForm]
	Groups     *Resource[customer.CustomerGroup, GroupForm]
	Customers  *Resource[customer.Customer, CustomerForm]
	Addresses  *Resource[customer.Address, AddressForm]
}

// NewResources 组装实体描述，audit 可为空
func NewResources(catalogs *catalogapp.CatalogService, customers *customerapp.CustomerService, audit Auditor) *Resources {
	options := &optionSource{catalogs: catalogs, customers: customers}

	return &Resources{
		Categories: &Resource[catalog.Category, CategoryForm]{
			Name:    "category",
			Title:   "category",
			Columns: []string{"name", "description"},
			Store:   catalogs.Categories,
			Apply: func(_ context.Context, c *catalog.Category, f *CategoryForm) error {
				c.Name, c.Description = f.Name, f.Description
				return nil
			},
			ToForm: func(c *catalog.Category) CategoryForm {
				return CategoryForm{Name: c.Name, Description: c.Description}
			},
			Ident: func(c *catalog.Category) (uint, string) { return c.ID, c.Name },
			audit: audit,
		},
		Colors: &Resource[catalog.Color, ColorForm]{
			Name:    "color",
			Title:   "color",
			Columns: []string{"name", "hex_code", "sort_order"},
			Store:   catalogs.Colors,
			Apply: func(_ context.Context, c *catalog.Color, f *ColorForm) error {
				c.Name, c.HexCode, c.SortOrder = f.Name, f.HexCode, f.SortOrder
				return nil
			},
			ToForm: func(c *catalog.Color) ColorForm {
				return ColorForm{Name: c.Name, HexCode: c.HexCode, SortOrder: c.SortOrder}
			},
			Ident: func(c *catalog.Color) (uint, string) { return c.ID, c.Name },
			audit: audit,
		},
		Brands: &Resource[catalog.Brand, BrandForm]{
			Name:    "brand",
			Title:   "brand",
			Columns: []string{"name", "logo", "website"},
			Store:   catalogs.Brands,
			Apply: func(_ context.Context, b *catalog.Brand, f *BrandForm) error {
				b.Name, b.Website, b.Description = f.Name, f.Website, f.Description
				return nil
			},
			Upload: func(ctx context.Context, b *catalog.Brand, f *BrandForm) (string, error) {
				if f.Logo == nil {
					return "", nil
				}
				data, err := readUpload(f.Logo)
				if err != nil {
					return "", err
				}
				rel, err := catalogs.StoreBrandLogo(ctx, f.Logo.Filename, data)
				if err != nil {
					return "", err
				}
				b.Logo = rel
				return rel, nil
			},
			Discard: catalogs.DiscardMedia,
			ToForm: func(b *catalog.Brand) BrandForm {
				return BrandForm{Name: b.Name, Website: b.Website, Description: b.Description}
			},
			Ident: func(b *catalog.Brand) (uint, string) { return b.ID, b.Name },
			View: func(b *catalog.Brand) any {
				v := *b
				v.Logo = catalogs.ImageURL(b.Logo)
				return v
			},
			audit: audit,
		},
		Sizes: &Resource[catalog.Size, SizeForm]{
			Name:    "size",
			Title:   "size",
			Columns: []string{"name", "abbreviation", "sort_order"},
			Store:   catalogs.Sizes,
			Apply: func(_ context.Context, s *catalog.Size, f *SizeForm) error {
				s.Name, s.Abbreviation, s.SortOrder = f.Name, f.Abbreviation, f.SortOrder
				return nil
			},
			ToForm: func(s *catalog.Size) SizeForm {
				return SizeForm{Name: s.Name, Abbreviation: s.Abbreviation, SortOrder: s.SortOrder}
			},
			Ident: func(s *catalog.Size) (uint, string) { return s.ID, s.Name },
			audit: audit,
		},
		Products: &Resource[catalog.Product, ProductForm]{
			Name:    "product",
			Title:   "product",
			Columns: []string{"image", "name", "category", "brand", "price"},
			Store:   catalogs.Products,
			Apply: func(_ context.Context, p *catalog.Product, f *ProductForm) error {
				price, err := parseDecimal("price", f.Price)
				if err != nil {
					return err
				}
				p.Name, p.Description, p.Price = f.Name, f.Description, price
				p.CategoryID = f.CategoryID
				p.BrandID = optionalID(f.BrandID)
				p.Colors = lo.Map(lo.Uniq(f.ColorIDs), func(id uint, _ int) catalog.Color { return catalog.Color{ID: id} })
				return nil
			},
			Upload: func(ctx context.Context, p *catalog.Product, f *ProductForm) (string, error) {
				if f.Image == nil {
					return "", nil
				}
				data, err := readUpload(f.Image)
				if err != nil {
					return "", err
				}
				rel, err := catalogs.StoreProductImage(ctx, f.Image.Filename, data)
				if err != nil {
					return "", err
				}
				p.Image = rel
				return rel, nil
			},
			Discard: catalogs.DiscardMedia,
			ToForm: func(p *catalog.Product) ProductForm {
				return ProductForm{
					Name:        p.Name,
					Description: p.Description,
					Price:       p.Price.StringFixed(2),
					CategoryID:  p.CategoryID,
					BrandID:     p.BrandID,
					ColorIDs:    p.ColorIDs(),
				}
			},
			Ident:   func(p *catalog.Product) (uint, string) { return p.ID, p.Name },
			Options: options.product,
			View:    func(p *catalog.Product) any { return catalogs.ProductView(p) },
			audit:   audit,
		},
		Stock: &Resource[catalog.StockEntry, StockForm]{
			Name:    "stockentry",
			Title:   "stock entry",
			Columns: []string{"product", "color", "size", "quantity"},
			Store:   catalogs.Stock,
			Apply: func(_ context.Context, e *catalog.StockEntry, f *StockForm) error {
				e.ProductID, e.ColorID, e.SizeID = f.ProductID, f.ColorID, f.SizeID
				e.Quantity = lo.FromPtr(f.Quantity)
				return nil
			},
			ToForm: func(e *catalog.StockEntry) StockForm {
				return StockForm{ProductID: e.ProductID, ColorID: e.ColorID, SizeID: e.SizeID, Quantity: lo.ToPtr(e.Quantity)}
			},
			Ident:   stockIdent,
			Options: options.stock,
			View:    stockView,
			audit:   audit,
		},
		Groups: &Resource[customer.CustomerGroup, GroupForm]{
			Name:    "customergroup",
			Title:   "customer group",
			Columns: []string{"name", "discount"},
			Store:   customers.Groups,
			Apply: func(_ context.Context, g *customer.CustomerGroup, f *GroupForm) error {
				discount, err := parseDecimal("discount", f.Discount)
				if err != nil {
					return err
				}
				g.Name, g.Discount = f.Name, discount
				return nil
			},
			ToForm: func(g *customer.CustomerGroup) GroupForm {
				return GroupForm{Name: g.Name, Discount: g.Discount.StringFixed(2)}
			},
			Ident: func(g *customer.CustomerGroup) (uint, string) { return g.ID, g.Name },
			View: func(g *customer.CustomerGroup) any {
				return map[string]any{"id": g.ID, "name": g.Name, "discount": g.Discount.StringFixed(2)}
			},
			audit: audit,
		},
		Customers: &Resource[customer.Customer, CustomerForm]{
			Name:    "customer",
			Title:   "customer",
			Columns: []string{"title", "name", "surname", "email", "group", "total_sales", "is_active"},
			Store:   customers.Customers,
			Apply: func(_ context.Context, c *customer.Customer, f *CustomerForm) error {
				sales, err := parseDecimal("total sales", f.TotalSales)
				if err != nil {
					return err
				}
				c.Title, c.Name, c.Surname, c.Email = f.Title, f.Name, f.Surname, f.Email
				c.GroupID = optionalID(f.GroupID)
				c.TotalSales = sales
				c.IsActive, c.Newsletter, c.PartnerOffers = f.IsActive, f.Newsletter, f.PartnerOffers
				return nil
			},
			ToForm: func(c *customer.Customer) CustomerForm {
				return CustomerForm{
					Title:         c.Title,
					Name:          c.Name,
					Surname:       c.Surname,
					Email:         c.Email,
					GroupID:       c.GroupID,
					TotalSales:    c.TotalSales.StringFixed(2),
					IsActive:      c.IsActive,
					Newsletter:    c.Newsletter,
					PartnerOffers: c.PartnerOffers,
				}
			},
			Ident:   func(c *customer.Customer) (uint, string) { return c.ID, c.Email },
			Options: options.customer,
			View:    customerView,
			audit:   audit,
		},
		Addresses: &Resource[customer.Address, AddressForm]{
			Name:    "address",
			Title:   "address",
			Columns: []string{"customer_id", "name", "surname", "street", "city", "country", "is_default"},
			Store:   customers.Addresses,
			Apply: func(_ context.Context, a *customer.Address, f *AddressForm) error {
				a.CustomerID = f.CustomerID
				f.AddressInput.Apply(a)
				return nil
			},
			ToForm: func(a *customer.Address) AddressForm {
				return AddressForm{
					CustomerID: a.CustomerID,
					AddressInput: customerapp.AddressInput{
						Name:       a.Name,
						Surname:    a.Surname,
						Street:     a.Street,
						PostalCode: a.PostalCode,
						City:       a.City,
						Country:    a.Country,
						Phone:      a.Phone,
						IsDefault:  a.IsDefault,
					},
				}
			},
			Ident: func(a *customer.Address) (uint, string) {
				return a.ID, fmt.Sprintf("%s, %s", a.Street, a.City)
			},
			Options: options.address,
			audit:   audit,
		},
	}
}

func stockIdent(e *catalog.StockEntry) (uint, string) {
	label := fmt.Sprintf("product %d / color %d / size %d", e.ProductID, e.ColorID, e.SizeID)
	if e.Product != nil && e.Color != nil && e.Size != nil {
		label = fmt.Sprintf("%s - %s - %s", e.Product.Name, e.Color.Name, e.Size.Abbreviation)
	}
	return e.ID, label
}

func stockView(e *catalog.StockEntry) any {
	v := map[string]any{
		"id":         e.ID,
		"product_id": e.ProductID,
		"color_id":   e.ColorID,
		"size_id":    e.SizeID,
		"quantity":   e.Quantity,
		"low_stock":  e.Quantity < catalog.LowStockThreshold,
	}
	if e.Product != nil {
		v["product"] = e.Product.Name
	}
	if e.Color != nil {
		v["color"] = e.Color.Name
	}
	if e.Size != nil {
		v["size"] = e.Size.Abbreviation
	}
	return v
}

func customerView(c *customer.Customer) any {
	v := map[string]any{
		"id":             c.ID,
		"title":          c.Title,
		"name":           c.Name,
		"surname":        c.Surname,
		"email":          c.Email,
		"group_id":       c.GroupID,
		"total_sales":    c.TotalSales.StringFixed(2),
		"is_active":      c.IsActive,
		"newsletter":     c.Newsletter,
		"partner_offers": c.PartnerOffers,
		"registered_at":  c.RegisteredAt,
		"last_visit":     c.LastVisit,
	}
	if c.Group != nil {
		v["group"] = c.Group.Name
	}
	return v
}

// optionSource 各表单下拉选项
type optionSource struct {
	catalogs  *catalogapp.CatalogService
	customers *customerapp.CustomerService
}

func named[T any](items []*T, ident func(*T) (uint, string)) []form.Option {
	return lo.Map(items, func(item *T, _ int) form.Option {
		id, label := ident(item)
		return form.Option{Value: id, Label: label}
	})
}

func (o *optionSource) product(ctx context.Context) (map[string][]form.Option, error) {
	categories, err := o.catalogs.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	brands, err := o.catalogs.Brands.List(ctx)
	if err != nil {
		return nil, err
	}
	colors, err := o.catalogs.Colors.List(ctx)
	if err != nil {
		return nil, err
	}
	return map[string][]form.Option{
		"category_id": named(categories, func(c *catalog.Category) (uint, string) { return c.ID, c.Name }),
		"brand_id":    named(brands, func(b *catalog.Brand) (uint, string) { return b.ID, b.Name }),
		"color_ids":   named(colors, func(c *catalog.Color) (uint, string) { return c.ID, c.Name }),
	}, nil
}

func (o *optionSource) stock(ctx context.Context) (map[string][]form.Option, error) {
	products, err := o.catalogs.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	colors, err := o.catalogs.Colors.List(ctx)
	if err != nil {
		return nil, err
	}
	sizes, err := o.catalogs.Sizes.List(ctx)
	if err != nil {
		return nil, err
	}
	return map[string][]form.Option{
		"product_id": named(products, func(p *catalog.Product) (uint, string) { return p.ID, p.Name }),
		"color_id":   named(colors, func(c *catalog.Color) (uint, string) { return c.ID, c.Name }),
		"size_id":    named(sizes, func(s *catalog.Size) (uint, string) { return s.ID, s.Name }),
	}, nil
}

func (o *optionSource) customer(ctx context.Context) (map[string][]form.Option, error) {
	groups, err := o.customers.Groups.List(ctx)
	if err != nil {
		return nil, err
	}
	titles := lo.Map(customer.Titles, func(t customer.Title, _ int) form.Option {
		return form.Option{Value: t, Label: t.Label()}
	})
	return map[string][]form.Option{
		"title":    titles,
		"group_id": named(groups, func(g *customer.CustomerGroup) (uint, string) { return g.ID, g.Name }),
	}, nil
}

func (o *optionSource) address(ctx context.Context) (map[string][]form.Option, error) {
	customers, err := o.customers.Customers.List(ctx)
	if err != nil {
		return nil, err
	}
	return map[string][]form.Option{
		"customer_id": named(customers, func(c *customer.Customer) (uint, string) { return c.ID, c.FullName() }),
	}, nil
}
