package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wyfcoding/storefront/internal/cart/application"
	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/errorsx"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/response"
)

// UserResolver 返回当前登录用户 ID，匿名访客返回 0
type UserResolver func(c *gin.Context) uint

// CartHandler 购物车 JSON 接口
type CartHandler struct {
	app         *application.CartService
	session     config.SessionConfig
	currentUser UserResolver
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(app *application.CartService, session config.SessionConfig, currentUser UserResolver) *CartHandler {
	return &CartHandler{app: app, session: session, currentUser: currentUser}
}

// RegisterRoutes 注册路由，mutate 作用于所有写操作（如限流）
func (h *CartHandler) RegisterRoutes(router gin.IRouter, mutate ...gin.HandlerFunc) {
	cart := router.Group("/cart")
	cart.GET("/data", h.Data)

	writes := cart.Group("", mutate...)
	writes.POST("/add", h.Add)
	writes.POST("/update", h.Update)
	writes.POST("/remove", h.Remove)
	writes.POST("/clear", h.Clear)
}

type addRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	ColorID   uint `json:"color_id" binding:"required"`
	SizeID    uint `json:"size_id" binding:"required"`
	Quantity  *int `json:"quantity"`
}

type updateRequest struct {
	LineID   uint `json:"line_id" binding:"required"`
	Quantity *int `json:"quantity"`
}

type removeRequest struct {
	LineID uint `json:"line_id" binding:"required"`
}

// Data 购物车明细
func (h *CartHandler) Data(c *gin.Context) {
	owner := h.owner(c, true)
	view, err := h.app.Totals(c.Request.Context(), owner)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, view)
}

// Add 加入购物车
func (h *CartHandler) Add(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, http.StatusBadRequest, "missing required fields")
		return
	}

	summary, err := h.app.AddLine(c.Request.Context(), h.owner(c, true), application.AddLineCommand{
		ProductID: req.ProductID,
		ColorID:   req.ColorID,
		SizeID:    req.SizeID,
		Quantity:  quantityOrOne(req.Quantity),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, "product added to cart", summary)
}

// Update 修改数量
func (h *CartHandler) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, http.StatusBadRequest, "missing required fields")
		return
	}

	update, err := h.app.SetQuantity(c.Request.Context(), h.owner(c, false), req.LineID, quantityOrOne(req.Quantity))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "quantity updated",
		"subtotal":   update.Subtotal,
		"item_count": update.ItemCount,
		"total":      update.Total,
	})
}

// Remove 移除购物车行
func (h *CartHandler) Remove(c *gin.Context) {
	var req removeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, http.StatusBadRequest, "missing required fields")
		return
	}

	summary, err := h.app.RemoveLine(c.Request.Context(), h.owner(c, false), req.LineID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, "product removed from cart", summary)
}

// Clear 清空购物车
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.app.Clear(c.Request.Context(), h.owner(c, true)); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, "cart cleared", application.Summary{Total: "0.00"})
}

// ItemCount 当前访客购物车件数，供页面头部展示；不会创建购物车
func (h *CartHandler) ItemCount(c *gin.Context) int {
	n, err := h.app.Peek(c.Request.Context(), h.owner(c, false))
	if err != nil {
		logger.Warn(c.Request.Context(), "failed to count cart items", "error", err)
		return 0
	}
	return n
}

// owner 解析购物车归属；匿名且无 Cookie 时按需生成会话键
func (h *CartHandler) owner(c *gin.Context, create bool) domain.Owner {
	if h.currentUser != nil {
		if id := h.currentUser(c); id != 0 {
			return domain.Owner{UserID: id}
		}
	}
	if key, err := c.Cookie(h.session.CartCookieName); err == nil && key != "" {
		return domain.Owner{SessionKey: key}
	}
	if !create {
		return domain.Owner{}
	}

	key := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CartCookieName, key, int(h.session.CartTTL.Seconds()), "/", "", h.session.Secure, true)
	return domain.Owner{SessionKey: key}
}

func (h *CartHandler) ok(c *gin.Context, msg string, s application.Summary) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    msg,
		"item_count": s.ItemCount,
		"total":      s.Total,
	})
}

func (h *CartHandler) reject(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

func (h *CartHandler) fail(c *gin.Context, err error) {
	status := response.StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "cart operation failed", "path", c.FullPath(), "error", err)
		h.reject(c, status, err.Error())
		return
	}
	h.reject(c, status, errorsx.Message(err))
}

func quantityOrOne(q *int) int {
	if q == nil {
		return 1
	}
	return *q
}
