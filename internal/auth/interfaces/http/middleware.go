package http

import (
	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/auth/application"
	"github.com/wyfcoding/storefront/internal/auth/domain"
	"github.com/wyfcoding/storefront/pkg/errorsx"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/response"
)

// UserKey gin context 中当前用户的键
const UserKey = "auth.user"

// LoadIdentity 从会话 Cookie 解析当前用户；解析失败按匿名处理
func LoadIdentity(app *application.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := app.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Warn(c.Request.Context(), "failed to resolve session", "error", err)
		}
		if user != nil {
			c.Set(UserKey, user)
		}
		c.Next()
	}
}

// CurrentUser 当前登录用户，匿名时为 nil
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(UserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}

// CurrentUserID 当前登录用户 ID，匿名时为 0
func CurrentUserID(c *gin.Context) uint {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// RequireLogin 要求已登录
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			response.Error(c, errorsx.Unauthorized("authentication required"))
			return
		}
		c.Next()
	}
}

// RequireStaff 要求员工身份：匿名 401，非员工 403
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Error(c, errorsx.Unauthorized("authentication required"))
			return
		}
		if !user.IsStaff {
			response.Error(c, errorsx.Forbidden("staff access required"))
			return
		}
		c.Next()
	}
}
