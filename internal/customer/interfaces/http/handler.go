package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	authdomain "github.com/wyfcoding/storefront/internal/auth/domain"
	authhttp "github.com/wyfcoding/storefront/internal/auth/interfaces/http"
	"github.com/wyfcoding/storefront/internal/customer/application"
	"github.com/wyfcoding/storefront/internal/customer/domain"
	"github.com/wyfcoding/storefront/pkg/errorsx"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/response"
)

// SignInFunc 为新注册用户建立登录会话
type SignInFunc func(c *gin.Context, user *authdomain.User, remember bool) error

// Handler 注册与个人中心处理器
type Handler struct {
	app    *application.CustomerService
	signIn SignInFunc
}

func NewHandler(app *application.CustomerService, signIn SignInFunc) *Handler {
	return &Handler{app: app, signIn: signIn}
}

// RegisterRoutes 注册路由，个人中心路由需要登录，limit 作用于注册接口
func (h *Handler) RegisterRoutes(router gin.IRouter, limit ...gin.HandlerFunc) {
	router.POST("/register", append(limit, h.Register)...)

	profile := router.Group("/profile", authhttp.RequireLogin())
	{
		profile.GET("", h.Profile)
		profile.POST("", h.UpdateProfile)
		profile.POST("/addresses", h.AddAddress)
		profile.POST("/addresses/:id", h.UpdateAddress)
		profile.POST("/addresses/:id/delete", h.DeleteAddress)
		profile.POST("/addresses/:id/default", h.SetDefault)
	}
}

// Register 注册身份与客户档案，成功后直接登录
func (h *Handler) Register(c *gin.Context) {
	var cmd application.RegisterCommand
	if err := c.ShouldBind(&cmd); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "please fill in all required fields", err.Error())
		return
	}

	user, customer, err := h.app.Register(c.Request.Context(), cmd)
	if err != nil {
		if errorsx.Is(err, errorsx.KindInternal) {
			logger.Error(c.Request.Context(), "registration failed", "username", cmd.Username, "error", err)
			response.ErrorWithStatus(c, http.StatusInternalServerError, "an unexpected error occurred during registration, please try again", "")
			return
		}
		response.Error(c, err)
		return
	}

	if h.signIn != nil {
		if err := h.signIn(c, user, cmd.Remember); err != nil {
			logger.Warn(c.Request.Context(), "auto sign-in after registration failed", "user_id", user.ID, "error", err)
		}
	}
	response.Created(c, gin.H{
		"success":  true,
		"message":  "welcome, " + customer.Name + "! your account has been created",
		"customer": customer,
	})
}

// Profile 个人中心
func (h *Handler) Profile(c *gin.Context) {
	profile, err := h.app.Profile(c.Request.Context(), authhttp.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"profile": profile,
		"titles":  titleOptions(),
	})
}

// UpdateProfile 修改个人资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	var in application.ProfileUpdate
	if err := c.ShouldBind(&in); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "name is required", err.Error())
		return
	}

	customer, err := h.app.UpdateProfile(c.Request.Context(), authhttp.CurrentUser(c), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"success": true, "message": "profile updated", "customer": customer})
}

// AddAddress 新增地址
func (h *Handler) AddAddress(c *gin.Context) {
	customer, in, ok := h.addressRequest(c)
	if !ok {
		return
	}
	address, err := h.app.AddAddress(c.Request.Context(), customer.ID, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"success": true, "message": "address added", "address": address})
}

// UpdateAddress 修改地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	id, ok := addressID(c)
	if !ok {
		return
	}
	customer, in, ok := h.addressRequest(c)
	if !ok {
		return
	}
	address, err := h.app.UpdateAddress(c.Request.Context(), customer.ID, id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"success": true, "message": "address updated", "address": address})
}

// DeleteAddress 删除地址
func (h *Handler) DeleteAddress(c *gin.Context) {
	id, ok := addressID(c)
	if !ok {
		return
	}
	customer, ok := h.customer(c)
	if !ok {
		return
	}
	if err := h.app.DeleteAddress(c.Request.Context(), customer.ID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"success": true, "message": "address deleted"})
}

// SetDefault 设为默认地址
func (h *Handler) SetDefault(c *gin.Context) {
	id, ok := addressID(c)
	if !ok {
		return
	}
	customer, ok := h.customer(c)
	if !ok {
		return
	}
	if err := h.app.SetDefault(c.Request.Context(), customer.ID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"success": true, "message": "default address updated"})
}

func (h *Handler) customer(c *gin.Context) (*domain.Customer, bool) {
	customer, err := h.app.EnsureCustomer(c.Request.Context(), authhttp.CurrentUser(c))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return customer, true
}

func (h *Handler) addressRequest(c *gin.Context) (*domain.Customer, application.AddressInput, bool) {
	var in application.AddressInput
	if err := c.ShouldBind(&in); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "please fill in all required address fields", err.Error())
		return nil, in, false
	}
	customer, ok := h.customer(c)
	return customer, in, ok
}

func addressID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, errorsx.NotFound("address"))
		return 0, false
	}
	return uint(id), true
}

type titleOption struct {
	Value domain.Title `json:"value"`
	Label string       `json:"label"`
}

func titleOptions() []titleOption {
	options := make([]titleOption, 0, len(domain.Titles))
	for _, t := range domain.Titles {
		options = append(options, titleOption{Value: t, Label: t.Label()})
	}
	return options
}
