package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/internal/catalog/infrastructure/media"
	"github.com/wyfcoding/storefront/internal/catalog/infrastructure/persistence/mysql"
	"github.com/wyfcoding/storefront/pkg/db/dbtest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type shop struct {
	router *gin.Engine
	tee    *domain.Product
	polo   *domain.Product
	red    *domain.Color
	medium *domain.Size
	large  *domain.Size
	acme   *domain.Brand
}

func newShop(t *testing.T) *shop {
	t.Helper()
	conn := dbtest.New(t, mysql.Models()...)
	repos := application.Repositories{
		Categories: mysql.NewCategoryRepository(conn),
		Colors:     mysql.NewColorRepository(conn),
		Sizes:      mysql.NewSizeRepository(conn),
		Brands:     mysql.NewBrandRepository(conn),
		Products:   mysql.NewProductRepository(conn),
		Stock:      mysql.NewStockRepository(conn),
	}
	store := media.NewStore(afero.NewMemMapFs(), "media", "/media/")
	svc := application.NewCatalogService(
		application.NewCatalogCommandService(repos, nil, store, media.NewNormalizer(), nil, nil),
		application.NewCatalogQueryService(repos, store),
	)

	ctx := context.Background()
	s := &shop{
		red:    &domain.Color{Name: "Red", HexCode: "#FF0000"},
		medium: &domain.Size{Name: "Medium", Abbreviation: "M", SortOrder: 1},
		large:  &domain.Size{Name: "Large", Abbreviation: "L", SortOrder: 2},
		acme:   &domain.Brand{Name: "Acme"},
	}
	shirts := &domain.Category{Name: "Shirts"}
	require.NoError(t, svc.Categories.Create(ctx, shirts))
	require.NoError(t, svc.Colors.Create(ctx, s.red))
	require.NoError(t, svc.Sizes.Create(ctx, s.medium))
	require.NoError(t, svc.Sizes.Create(ctx, s.large))
	require.NoError(t, svc.Brands.Create(ctx, s.acme))

	s.tee = &domain.Product{Name: "Tee", Price: decimal.RequireFromString("19.99"), CategoryID: shirts.ID, Colors: []domain.Color{{ID: s.red.ID}}}
	require.NoError(t, svc.Products.Create(ctx, s.tee))
	s.polo = &domain.Product{Name: "Polo", Price: decimal.RequireFromString("35"), CategoryID: shirts.ID, BrandID: &s.acme.ID}
	require.NoError(t, svc.Products.Create(ctx, s.polo))

	require.NoError(t, svc.Stock.Create(ctx, &domain.StockEntry{ProductID: s.tee.ID, ColorID: s.red.ID, SizeID: s.medium.ID, Quantity: 4}))
	require.NoError(t, svc.Stock.Create(ctx, &domain.StockEntry{ProductID: s.tee.ID, ColorID: s.red.ID, SizeID: s.large.ID, Quantity: 0}))

	s.router = gin.New()
	NewShopHandler(svc, func(*gin.Context) int { return 3 }).RegisterRoutes(s.router)
	return s
}

func (s *shop) get(t *testing.T, path string, out any) int {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func TestHome(t *testing.T) {
	s := newShop(t)

	var resp struct {
		Featured []application.ProductView `json:"featured_products"`
		Count    int                       `json:"cart_item_count"`
	}
	require.Equal(t, http.StatusOK, s.get(t, "/", &resp))
	assert.Equal(t, 3, resp.Count)
	require.Len(t, resp.Featured, 2)
	assert.Equal(t, "Polo", resp.Featured[0].Name)
	assert.Equal(t, "35.00", resp.Featured[0].Price)
}

func TestListProducts(t *testing.T) {
	s := newShop(t)

	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"Polo", "Tee"}},
		{"by color", fmt.Sprintf("?color=%d", s.red.ID), []string{"Tee"}},
		{"by size", fmt.Sprintf("?size=%d", s.medium.ID), []string{"Tee"}},
		{"by brand", fmt.Sprintf("?brand=%d", s.acme.ID), []string{"Polo"}},
		{"no match", fmt.Sprintf("?brand=%d&color=%d", s.acme.ID, s.red.ID), []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var page application.ProductPage
			require.Equal(t, http.StatusOK, s.get(t, "/products"+tc.query, &page))
			names := make([]string, 0, len(page.Products))
			for _, p := range page.Products {
				names = append(names, p.Name)
			}
			assert.ElementsMatch(t, tc.want, names)
			assert.Len(t, page.Options.Sizes, 2)
			assert.Equal(t, 12, page.Pagination.PageSize)
		})
	}

	assert.Equal(t, http.StatusBadRequest, s.get(t, "/products?color=red", nil))
}

func TestProductDetail(t *testing.T) {
	s := newShop(t)

	var detail application.ProductDetail
	require.Equal(t, http.StatusOK, s.get(t, fmt.Sprintf("/products/%d", s.tee.ID), &detail))
	assert.Equal(t, "Tee", detail.Product.Name)
	require.Len(t, detail.Stock, 1)
	assert.Equal(t, "M", detail.Stock[0].Size.Abbreviation)
	assert.Equal(t, 4, detail.Stock[0].Quantity)
	require.Len(t, detail.AvailableColors, 1)
	assert.Equal(t, "#FF0000", detail.AvailableColors[0].HexCode)

	assert.Equal(t, http.StatusNotFound, s.get(t, "/products/9999", nil))
	assert.Equal(t, http.StatusNotFound, s.get(t, "/products/abc", nil))
}
