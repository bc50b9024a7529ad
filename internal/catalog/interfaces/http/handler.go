package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/response"
)

// CartCounter 返回当前访客购物车中的商品件数
type CartCounter func(c *gin.Context) int

// ShopHandler 店铺前台 HTTP 处理器
type ShopHandler struct {
	app       *application.CatalogService
	cartCount CartCounter
}

// NewShopHandler 创建店铺前台处理器，cartCount 可为空
func NewShopHandler(app *application.CatalogService, cartCount CartCounter) *ShopHandler {
	return &ShopHandler{app: app, cartCount: cartCount}
}

// RegisterRoutes 注册路由
func (h *ShopHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Home)
	router.GET("/products", h.ListProducts)
	router.GET("/products/:id", h.GetProduct)
}

type listQuery struct {
	domain.ProductFilter
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Home 首页：最新商品与购物车件数
func (h *ShopHandler) Home(c *gin.Context) {
	products, err := h.app.FeaturedProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	count := 0
	if h.cartCount != nil {
		count = h.cartCount(c)
	}

	response.Success(c, gin.H{
		"featured_products": products,
		"cart_item_count":   count,
	})
}

// ListProducts 商品列表，支持按分类、颜色、尺码、品牌筛选
func (h *ShopHandler) ListProducts(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	page, err := h.app.ListProducts(c.Request.Context(), q.ProductFilter, q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// GetProduct 商品详情
func (h *ShopHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "")
		return
	}

	detail, err := h.app.ProductDetail(c.Request.Context(), uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}
