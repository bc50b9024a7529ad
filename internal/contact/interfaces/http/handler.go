package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/contact/application"
	"github.com/wyfcoding/storefront/pkg/form"
	"github.com/wyfcoding/storefront/pkg/response"
)

// Handler 联系表单处理器
type Handler struct {
	app *application.ContactService
}

func NewHandler(app *application.ContactService) *Handler {
	return &Handler{app: app}
}

// RegisterRoutes 注册路由，limit 作用于提交接口
func (h *Handler) RegisterRoutes(router gin.IRouter, limit ...gin.HandlerFunc) {
	router.GET("/contact", h.Form)
	router.POST("/contact", append(limit, h.Submit)...)
}

// Form 空表单描述
func (h *Handler) Form(c *gin.Context) {
	response.Success(c, gin.H{"form": form.New(application.SubmitCommand{})})
}

// Submit 提交留言
func (h *Handler) Submit(c *gin.Context) {
	var cmd application.SubmitCommand
	if err := c.ShouldBind(&cmd); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "please provide your name, a valid email and a message", err.Error())
		return
	}
	if _, err := h.app.Submit(c.Request.Context(), cmd); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"success": true,
		"message": "thank you for your message, we will get back to you soon",
	})
}
