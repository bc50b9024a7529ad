package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/storefront/internal/admin/application"
	authhttp "github.com/wyfcoding/storefront/internal/auth/interfaces/http"
	"github.com/wyfcoding/storefront/pkg/errorsx"
	"github.com/wyfcoding/storefront/pkg/response"
)

// Handler 管理后台处理器
type Handler struct {
	app *application.AdminService
}

func NewHandler(app *application.AdminService) *Handler {
	return &Handler{app: app}
}

// RegisterRoutes 注册 /panel 下的全部路由，均要求员工身份
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	panel := router.Group("/panel", authhttp.RequireStaff())
	panel.GET("", h.Dashboard)
	panel.GET("/stock", h.StockOverview)

	res := h.app.Resources
	mount(panel, res.Categories)
	mount(panel, res.Colors)
	mount(panel, res.Brands)
	mount(panel, res.Sizes)
	mount(panel, res.Products)
	mount(panel, res.Stock)
	mount(panel, res.Groups)
	mount(panel, res.Customers)
	mount(panel, res.Addresses)
}

// Dashboard 后台首页
func (h *Handler) Dashboard(c *gin.Context) {
	view, err := h.app.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// StockOverview 库存总览
func (h *Handler) StockOverview(c *gin.Context) {
	view, err := h.app.StockOverview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

// mount 为一个实体注册列表、新建、编辑、删除路由
func mount[T any, F any](router gin.IRouter, r *application.Resource[T, F]) {
	ctl := &controller[T, F]{res: r}
	g := router.Group("/" + r.Name)
	g.GET("", ctl.list)
	g.GET("/new", ctl.blank)
	g.POST("", ctl.create)
	g.GET("/:id", ctl.edit)
	g.POST("/:id", ctl.update)
	g.GET("/:id/delete", ctl.confirmDelete)
	g.POST("/:id/delete", ctl.delete)
}

type controller[T any, F any] struct {
	res *application.Resource[T, F]
}

func (ctl *controller[T, F]) list(c *gin.Context) {
	view, err := ctl.res.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

func (ctl *controller[T, F]) blank(c *gin.Context) {
	f, err := ctl.res.Blank(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"resource": ctl.res.Name, "form": f})
}

func (ctl *controller[T, F]) create(c *gin.Context) {
	f, ok := ctl.bind(c)
	if !ok {
		return
	}
	item, err := ctl.res.Create(c.Request.Context(), actor(c), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"success": true,
		"message": ctl.res.Title + " created",
		"item":    item,
	})
}

func (ctl *controller[T, F]) edit(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	view, err := ctl.res.Edit(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

func (ctl *controller[T, F]) update(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	f, ok := ctl.bind(c)
	if !ok {
		return
	}
	item, err := ctl.res.Update(c.Request.Context(), actor(c), id, f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"success": true,
		"message": ctl.res.Title + " updated",
		"item":    item,
	})
}

func (ctl *controller[T, F]) confirmDelete(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	view, err := ctl.res.ConfirmDelete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, view)
}

func (ctl *controller[T, F]) delete(c *gin.Context) {
	id, ok := ctl.id(c)
	if !ok {
		return
	}
	if err := ctl.res.Delete(c.Request.Context(), actor(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"success": true, "message": ctl.res.Title + " deleted"})
}

func (ctl *controller[T, F]) bind(c *gin.Context) (*F, bool) {
	f := new(F)
	if err := c.ShouldBind(f); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "please correct the errors in the form", err.Error())
		return nil, false
	}
	return f, true
}

func (ctl *controller[T, F]) id(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, errorsx.NotFound(ctl.res.Title))
		return 0, false
	}
	return uint(id), true
}

func actor(c *gin.Context) string {
	if user := authhttp.CurrentUser(c); user != nil {
		return user.Username
	}
	return ""
}
