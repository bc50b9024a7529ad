package application

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/wyfcoding/storefront/internal/admin/domain"
	"github.com/wyfcoding/storefront/pkg/crud"
	"github.com/wyfcoding/storefront/pkg/form"
)

// Auditor 记录后台写操作
type Auditor interface {
	Record(ctx context.Context, actor, resource string, op crud.Op, itemID uint, label string)
}

// Resource 后台通用增删改查控制器的实体描述，F 为带校验标签的表单类型
type Resource[T any, F any] struct {
	// Name 路由名，如 category
	Name string
	// Title 展示名
	Title string
	// Columns 列表展示的字段
	Columns []string
	Store   domain.Store[T]
	// Apply 把表单写入实体，不做任何落盘
	Apply func(ctx context.Context, item *T, f *F) error
	// Upload 保存表单中的上传文件并写入实体，返回新文件路径，可为空
	Upload func(ctx context.Context, item *T, f *F) (string, error)
	// Discard 实体保存失败时删除 Upload 写入的文件
	Discard func(ctx context.Context, rel string)
	// ToForm 用实体填充编辑表单
	ToForm func(item *T) F
	// Ident 返回实体 ID 与可读名称
	Ident func(item *T) (uint, string)
	// Options 下拉字段的可选项，可为空
	Options func(ctx context.Context) (map[string][]form.Option, error)
	// View 展示结构，为空时直接输出实体
	View func(item *T) any

	audit Auditor
}

// ListView 列表页
type ListView struct {
	Resource string   `json:"resource"`
	Title    string   `json:"title"`
	Columns  []string `json:"columns"`
	Items    []any    `json:"items"`
}

// EditView 编辑页
type EditView struct {
	Resource string    `json:"resource"`
	Item     any       `json:"item"`
	Form     form.Form `json:"form"`
}

// DeleteView 删除确认页
type DeleteView struct {
	Resource string `json:"resource"`
	Item     any    `json:"item"`
	Message  string `json:"message"`
}

func (r *Resource[T, F]) view(item *T) any {
	if r.View != nil {
		return r.View(item)
	}
	return item
}

// List 列表
func (r *Resource[T, F]) List(ctx context.Context) (*ListView, error) {
	items, err := r.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ListView{
		Resource: r.Name,
		Title:    r.Title,
		Columns:  r.Columns,
		Items:    lo.Map(items, func(item *T, _ int) any { return r.view(item) }),
	}, nil
}

// Blank 新建用的空表单
func (r *Resource[T, F]) Blank(ctx context.Context) (form.Form, error) {
	return r.form(ctx, nil)
}

// Edit 编辑表单，带当前值
func (r *Resource[T, F]) Edit(ctx context.Context, id uint) (*EditView, error) {
	item, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	values := r.ToForm(item)
	f, err := r.form(ctx, &values)
	if err != nil {
		return nil, err
	}
	return &EditView{Resource: r.Name, Item: r.view(item), Form: f}, nil
}

// Create 按表单新建实体
func (r *Resource[T, F]) Create(ctx context.Context, actor string, f *F) (any, error) {
	item := new(T)
	if err := r.Apply(ctx, item, f); err != nil {
		return nil, err
	}
	rel, err := r.upload(ctx, item, f)
	if err != nil {
		return nil, err
	}
	if err := r.Store.Create(ctx, item); err != nil {
		r.discard(ctx, rel)
		return nil, err
	}
	r.record(ctx, actor, crud.OpCreated, item)
	return r.view(item), nil
}

// Update 按表单修改实体
func (r *Resource[T, F]) Update(ctx context.Context, actor string, id uint, f *F) (any, error) {
	var rel string
	item, err := r.Store.Update(ctx, id, func(item *T) error {
		if err := r.Apply(ctx, item, f); err != nil {
			return err
		}
		var err error
		rel, err = r.upload(ctx, item, f)
		return err
	})
	if err != nil {
		r.discard(ctx, rel)
		return nil, err
	}
	r.record(ctx, actor, crud.OpUpdated, item)
	return r.view(item), nil
}

// ConfirmDelete 删除前的确认信息
func (r *Resource[T, F]) ConfirmDelete(ctx context.Context, id uint) (*DeleteView, error) {
	item, err := r.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	_, label := r.Ident(item)
	return &DeleteView{
		Resource: r.Name,
		Item:     r.view(item),
		Message:  fmt.Sprintf("are you sure you want to delete %s %q?", r.Title, label),
	}, nil
}

// Delete 删除实体
func (r *Resource[T, F]) Delete(ctx context.Context, actor string, id uint) error {
	item, err := r.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.Store.Delete(ctx, id); err != nil {
		return err
	}
	r.record(ctx, actor, crud.OpDeleted, item)
	return nil
}

func (r *Resource[T, F]) upload(ctx context.Context, item *T, f *F) (string, error) {
	if r.Upload == nil {
		return "", nil
	}
	return r.Upload(ctx, item, f)
}

func (r *Resource[T, F]) discard(ctx context.Context, rel string) {
	if rel != "" && r.Discard != nil {
		r.Discard(ctx, rel)
	}
}

func (r *Resource[T, F]) form(ctx context.Context, values *F) (form.Form, error) {
	f := form.New(new(F))
	if r.Options != nil {
		options, err := r.Options(ctx)
		if err != nil {
			return form.Form{}, err
		}
		for name, opts := range options {
			f = f.WithOptions(name, opts)
		}
	}
	if values != nil {
		f = f.WithValues(values)
	}
	return f, nil
}

func (r *Resource[T, F]) record(ctx context.Context, actor string, op crud.Op, item *T) {
	if r.audit == nil {
		return
	}
	id, label := r.Ident(item)
	r.audit.Record(ctx, actor, r.Name, op, id, label)
}
