package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/auth/application"
	"github.com/wyfcoding/storefront/internal/auth/domain"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/response"
)

// Handler 登录、登出处理器
type Handler struct {
	app     *application.AuthService
	session config.SessionConfig
}

func NewHandler(app *application.AuthService, session config.SessionConfig) *Handler {
	return &Handler{app: app, session: session}
}

// RegisterRoutes 注册前台登录路由，limit 作用于登录接口
func (h *Handler) RegisterRoutes(router gin.IRouter, limit ...gin.HandlerFunc) {
	router.POST("/login", append(limit, h.Login)...)
	router.POST("/logout", h.Logout)
}

// RegisterPanelRoutes 注册管理后台登录路由，仅员工可登录
func (h *Handler) RegisterPanelRoutes(router gin.IRouter, limit ...gin.HandlerFunc) {
	router.POST("/panel/login", append(limit, h.PanelLogin)...)
	router.POST("/panel/logout", h.Logout)
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Remember bool   `form:"remember" json:"remember"`
}

// UserView 对外展示的用户信息
type UserView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
}

func toUserView(u *domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
	}
}

// Login 用户名或邮箱登录
func (h *Handler) Login(c *gin.Context) {
	h.login(c, false)
}

// PanelLogin 管理后台登录
func (h *Handler) PanelLogin(c *gin.Context) {
	h.login(c, true)
}

func (h *Handler) login(c *gin.Context, staffOnly bool) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "username and password are required", "")
		return
	}

	session, user, err := h.app.Login(c.Request.Context(), application.LoginCommand{
		Login:     req.Username,
		Password:  req.Password,
		Remember:  req.Remember,
		StaffOnly: staffOnly,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, session)
	response.Success(c, gin.H{
		"success": true,
		"message": "welcome back, " + user.FullName(),
		"user":    toUserView(user),
	})
}

// SignIn 为刚注册的用户建立会话并写入 Cookie
func (h *Handler) SignIn(c *gin.Context, user *domain.User, remember bool) error {
	session, err := h.app.StartSession(c.Request.Context(), user, remember)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session)
	return nil
}

// Logout 登出，同时丢弃匿名购物车 Cookie
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.session.CookieName); err == nil {
		if err := h.app.Logout(c.Request.Context(), token); err != nil {
			response.Error(c, err)
			return
		}
	}

	h.clearCookie(c, h.session.CookieName)
	if h.session.CartCookieName != "" {
		h.clearCookie(c, h.session.CartCookieName)
	}
	response.Success(c, gin.H{"success": true, "message": "you have been logged out"})
}

func (h *Handler) setSessionCookie(c *gin.Context, session *domain.AuthSession) {
	// 未勾选“记住我”时使用浏览器会话 Cookie
	maxAge := 0
	if session.Remember {
		maxAge = int(h.session.RememberTTL.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, session.Token, maxAge, "/", "", h.session.Secure, true)
}

func (h *Handler) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", h.session.Secure, true)
}
