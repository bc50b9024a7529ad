package application

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/internal/catalog/infrastructure/media"
	"github.com/wyfcoding/storefront/internal/catalog/infrastructure/persistence/mysql"
	"github.com/wyfcoding/storefront/pkg/db/dbtest"
	"github.com/wyfcoding/storefront/pkg/errorsx"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

type cartCleaner struct {
	products, colors, sizes []uint
}

func (c *cartCleaner) DeleteLinesByProduct(_ context.Context, id uint) error {
	c.products = append(c.products, id)
	return nil
}

func (c *cartCleaner) DeleteLinesByColor(_ context.Context, id uint) error {
	c.colors = append(c.colors, id)
	return nil
}

func (c *cartCleaner) DeleteLinesBySize(_ context.Context, id uint) error {
	c.sizes = append(c.sizes, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

type fixture struct {
	svc       *CatalogService
	repos     Repositories
	carts     *cartCleaner
	publisher *recordingPublisher
	fs        afero.Fs

	shirts *domain.Category
	red    *domain.Color
	blue   *domain.Color
	small  *domain.Size
	large  *domain.Size
	acme   *domain.Brand
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.New(t, mysql.Models()...)

	f := &fixture{
		repos: Repositories{
			Categories: mysql.NewCategoryRepository(conn),
			Colors:     mysql.NewColorRepository(conn),
			Sizes:      mysql.NewSizeRepository(conn),
			Brands:     mysql.NewBrandRepository(conn),
			Products:   mysql.NewProductRepository(conn),
			Stock:      mysql.NewStockRepository(conn),
		},
		carts:     &cartCleaner{},
		publisher: &recordingPublisher{},
		fs:        afero.NewMemMapFs(),
	}
	store := media.NewStore(f.fs, "media", "/media/")
	cmd := NewCatalogCommandService(f.repos, f.carts, store, media.NewNormalizer(), f.publisher, metrics.New())
	f.svc = NewCatalogService(cmd, NewCatalogQueryService(f.repos, store))

	ctx := context.Background()
	f.shirts = &domain.Category{Name: "Shirts"}
	require.NoError(t, f.svc.Categories.Create(ctx, f.shirts))
	f.red = &domain.Color{Name: "Red", HexCode: "#FF0000", SortOrder: 1}
	require.NoError(t, f.svc.Colors.Create(ctx, f.red))
	f.blue = &domain.Color{Name: "Blue", HexCode: "#0000FF", SortOrder: 2}
	require.NoError(t, f.svc.Colors.Create(ctx, f.blue))
	f.small = &domain.Size{Name: "Small", Abbreviation: "S", SortOrder: 1}
	require.NoError(t, f.svc.Sizes.Create(ctx, f.small))
	f.large = &domain.Size{Name: "Large", Abbreviation: "L", SortOrder: 2}
	require.NoError(t, f.svc.Sizes.Create(ctx, f.large))
	f.acme = &domain.Brand{Name: "Acme"}
	require.NoError(t, f.svc.Brands.Create(ctx, f.acme))
	return f
}

func (f *fixture) product(t *testing.T, name, price string, colors ...*domain.Color) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: f.shirts.ID,
	}
	for _, c := range colors {
		p.Colors = append(p.Colors, domain.Color{ID: c.ID})
	}
	require.NoError(t, f.svc.Products.Create(context.Background(), p))
	return p
}

func (f *fixture) stock(t *testing.T, p *domain.Product, c *domain.Color, s *domain.Size, qty int) *domain.StockEntry {
	t.Helper()
	e := &domain.StockEntry{ProductID: p.ID, ColorID: c.ID, SizeID: s.ID, Quantity: qty}
	require.NoError(t, f.svc.Stock.Create(context.Background(), e))
	return e
}

func TestReferenceDataGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("category in use cannot be deleted", func(t *testing.T) {
		f := newFixture(t)
		f.product(t, "Tee", "10.00")

		err := f.svc.Categories.Delete(ctx, f.shirts.ID)
		require.Error(t, err)
		assert.True(t, errorsx.Is(err, errorsx.KindValidation))

		_, err = f.svc.Categories.Get(ctx, f.shirts.ID)
		assert.NoError(t, err)
	})

	t.Run("color with stock cannot be deleted", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, "Tee", "10.00", f.red)
		f.stock(t, p, f.red, f.small, 3)

		err := f.svc.Colors.Delete(ctx, f.red.ID)
		assert.True(t, errorsx.Is(err, errorsx.KindValidation))
		assert.Empty(t, f.carts.colors)
	})

	t.Run("unused color is removed from products and carts", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, "Tee", "10.00", f.red, f.blue)

		require.NoError(t, f.svc.Colors.Delete(ctx, f.blue.ID))
		assert.Equal(t, []uint{f.blue.ID}, f.carts.colors)

		got, err := f.svc.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{f.red.ID}, got.ColorIDs())
	})

	t.Run("size with stock cannot be deleted", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, "Tee", "10.00")
		f.stock(t, p, f.red, f.large, 1)

		assert.True(t, errorsx.Is(f.svc.Sizes.Delete(ctx, f.large.ID), errorsx.KindValidation))
		require.NoError(t, f.svc.Sizes.Delete(ctx, f.small.ID))
		assert.Equal(t, []uint{f.small.ID}, f.carts.sizes)
	})

	t.Run("deleting a brand keeps its products", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, "Tee", "10.00")
		_, err := f.svc.Products.Update(ctx, p.ID, func(p *domain.Product) error {
			p.BrandID = &f.acme.ID
			return nil
		})
		require.NoError(t, err)

		require.NoError(t, f.svc.Brands.Delete(ctx, f.acme.ID))

		got, err := f.svc.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got.BrandID)
		assert.Nil(t, got.Brand)
	})

	t.Run("duplicate color names are rejected", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Colors.Create(ctx, &domain.Color{Name: "Red", HexCode: "#AA0000"})
		require.Error(t, err)
		assert.Equal(t, "a color with this name already exists", errorsx.Message(err))
	})

	t.Run("bad hex code is rejected", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Colors.Create(ctx, &domain.Color{Name: "Green", HexCode: "green"})
		assert.True(t, errorsx.Is(err, errorsx.KindValidation))
	})
}

func TestProductLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("missing category is not found", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Products.Create(ctx, &domain.Product{Name: "Tee", Price: decimal.NewFromInt(1), CategoryID: 999})
		assert.True(t, errorsx.Is(err, errorsx.KindNotFound))
	})

	t.Run("unknown color is not found", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Products.Create(ctx, &domain.Product{
			Name:       "Tee",
			Price:      decimal.NewFromInt(1),
			CategoryID: f.shirts.ID,
			Colors:     []domain.Color{{ID: 999}},
		})
		assert.True(t, errorsx.Is(err, errorsx.KindNotFound))
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Products.Create(ctx, &domain.Product{Name: "Tee", Price: decimal.NewFromInt(-1), CategoryID: f.shirts.ID})
		assert.True(t, errorsx.Is(err, errorsx.KindValidation))
	})

	t.Run("delete cascades stock and cart lines", func(t *testing.T) {
		f := newFixture(t)
		p := f.product(t, "Tee", "10.00", f.red)
		f.stock(t, p, f.red, f.small, 4)

		require.NoError(t, f.svc.Products.Delete(ctx, p.ID))

		n, err := f.repos.Stock.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, []uint{p.ID}, f.carts.products)
		assert.Contains(t, f.publisher.topics, domain.TopicProductChanged)

		_, err = f.svc.GetProduct(ctx, p.ID)
		assert.True(t, errorsx.Is(err, errorsx.KindNotFound))
	})
}

func TestStockEntries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Tee", "10.00")

	t.Run("negative quantity is rejected", func(t *testing.T) {
		err := f.svc.Stock.Create(ctx, &domain.StockEntry{ProductID: p.ID, ColorID: f.red.ID, SizeID: f.small.ID, Quantity: -1})
		assert.True(t, errorsx.Is(err, errorsx.KindValidation))
	})

	t.Run("triple is unique", func(t *testing.T) {
		f.stock(t, p, f.red, f.small, 2)
		err := f.svc.Stock.Create(ctx, &domain.StockEntry{ProductID: p.ID, ColorID: f.red.ID, SizeID: f.small.ID, Quantity: 1})
		assert.True(t, errorsx.Is(err, errorsx.KindValidation))
	})

	t.Run("unknown size is not found", func(t *testing.T) {
		err := f.svc.Stock.Create(ctx, &domain.StockEntry{ProductID: p.ID, ColorID: f.red.ID, SizeID: 999, Quantity: 1})
		assert.True(t, errorsx.Is(err, errorsx.KindNotFound))
	})

	t.Run("find returns nil for missing triple", func(t *testing.T) {
		e, err := f.svc.FindStock(ctx, p.ID, f.blue.ID, f.large.ID)
		require.NoError(t, err)
		assert.Nil(t, e)
	})

	t.Run("stock levels across products", func(t *testing.T) {
		polo := f.product(t, "Polo", "20.00")
		f.stock(t, polo, f.blue, f.large, 7)
		keys := []domain.StockKey{
			{ProductID: p.ID, ColorID: f.red.ID, SizeID: f.small.ID},
			{ProductID: polo.ID, ColorID: f.blue.ID, SizeID: f.large.ID},
			{ProductID: polo.ID, ColorID: f.red.ID, SizeID: f.large.ID},
		}
		levels, err := f.svc.StockLevels(ctx, keys)
		require.NoError(t, err)
		assert.Equal(t, map[domain.StockKey]int{keys[0]: 2, keys[1]: 7, keys[2]: 0}, levels)

		empty, err := f.svc.StockLevels(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tee := f.product(t, "Tee", "10.00", f.red)
	polo := f.product(t, "Polo", "25.50", f.blue)
	f.product(t, "Henley", "30.00", f.red, f.blue)
	f.stock(t, polo, f.blue, f.large, 1)
	_, err := f.svc.Products.Update(ctx, tee.ID, func(p *domain.Product) error {
		p.BrandID = &f.acme.ID
		return nil
	})
	require.NoError(t, err)

	names := func(page *ProductPage) []string {
		var out []string
		for _, p := range page.Products {
			out = append(out, p.Name)
		}
		return out
	}

	t.Run("newest first", func(t *testing.T) {
		page, err := f.svc.ListProducts(ctx, domain.ProductFilter{}, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Henley", "Polo", "Tee"}, names(page))
		assert.EqualValues(t, 3, page.Pagination.Total)
		assert.Len(t, page.Options.Colors, 2)
		assert.Equal(t, "Red", page.Options.Colors[0].Name)
	})

	t.Run("by color", func(t *testing.T) {
		page, err := f.svc.ListProducts(ctx, domain.ProductFilter{ColorID: f.red.ID}, 1, 12)
		require.NoError(t, err)
		assert.Equal(t, []string{"Henley", "Tee"}, names(page))
	})

	t.Run("by size uses stock entries", func(t *testing.T) {
		page, err := f.svc.ListProducts(ctx, domain.ProductFilter{SizeID: f.large.ID}, 1, 12)
		require.NoError(t, err)
		assert.Equal(t, []string{"Polo"}, names(page))
	})

	t.Run("by brand", func(t *testing.T) {
		page, err := f.svc.ListProducts(ctx, domain.ProductFilter{BrandID: f.acme.ID}, 1, 12)
		require.NoError(t, err)
		assert.Equal(t, []string{"Tee"}, names(page))
		assert.Equal(t, "Acme", page.Products[0].Brand.Name)
	})

	t.Run("paginates", func(t *testing.T) {
		page, err := f.svc.ListProducts(ctx, domain.ProductFilter{}, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Tee"}, names(page))
		assert.EqualValues(t, 2, page.Pagination.Pages)
	})

	t.Run("price keeps two decimals", func(t *testing.T) {
		featured, err := f.svc.FeaturedProducts(ctx)
		require.NoError(t, err)
		require.Len(t, featured, 3)
		assert.Equal(t, "30.00", featured[0].Price)
	})
}

func TestProductDetail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Tee", "10.00", f.red, f.blue)
	f.stock(t, p, f.red, f.small, 3)
	f.stock(t, p, f.blue, f.large, 0)

	detail, err := f.svc.ProductDetail(ctx, p.ID)
	require.NoError(t, err)

	require.Len(t, detail.Stock, 1)
	assert.Equal(t, "Red", detail.Stock[0].Color.Name)
	assert.Equal(t, "S", detail.Stock[0].Size.Abbreviation)
	assert.Len(t, detail.AvailableColors, 2)
	assert.Len(t, detail.AvailableSizes, 2)

	_, err = f.svc.ProductDetail(ctx, 999)
	assert.True(t, errorsx.Is(err, errorsx.KindNotFound))
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product(t, "Tee", "10.00")
	f.stock(t, p, f.red, f.small, 4)
	f.stock(t, p, f.red, f.large, 5)
	f.stock(t, p, f.blue, f.small, 0)

	d, err := f.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.TotalProducts)
	assert.EqualValues(t, 1, d.TotalCategories)
	assert.EqualValues(t, 2, d.TotalColors)
	assert.EqualValues(t, 1, d.TotalBrands)
	assert.EqualValues(t, 2, d.LowStock)
	assert.Len(t, d.RecentProducts, 1)

	rows, err := f.svc.StockOverview(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Tee", rows[0].Product.Name)
}

func TestStoreProductImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("valid image is normalized", func(t *testing.T) {
		var buf bytes.Buffer
		img := image.NewRGBA(image.Rect(0, 0, 100, 200))
		img.Set(0, 0, color.Black)
		require.NoError(t, png.Encode(&buf, img))

		rel, err := f.svc.StoreProductImage(ctx, "tee.jpg", buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "products/tee_450x563.png", rel)

		data, err := afero.ReadFile(f.fs, "media/"+rel)
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, media.CanvasWidth, cfg.Width)
		assert.Equal(t, media.CanvasHeight, cfg.Height)
	})

	t.Run("corrupt image keeps the original", func(t *testing.T) {
		rel, err := f.svc.StoreProductImage(ctx, "broken.jpg", []byte("not an image"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(rel, "products/broken"))

		data, err := afero.ReadFile(f.fs, "media/"+rel)
		require.NoError(t, err)
		assert.Equal(t, []byte("not an image"), data)
	})

	t.Run("oversized image keeps the original", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
		forged := buf.Bytes()
		binary.BigEndian.PutUint32(forged[16:20], 20000)
		binary.BigEndian.PutUint32(forged[20:24], 20000)
		binary.BigEndian.PutUint32(forged[29:33], crc32.ChecksumIEEE(forged[12:29]))

		rel, err := f.svc.StoreProductImage(ctx, "huge.png", forged)
		require.NoError(t, err)
		assert.Equal(t, "products/huge.png", rel)

		data, err := afero.ReadFile(f.fs, "media/"+rel)
		require.NoError(t, err)
		assert.Equal(t, forged, data)
	})
}
