// Package crud 提供按主键增删改查的通用应用服务，校验、引用检查与级联通过钩子注入
package crud

import (
	"context"

	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/errorsx"
)

// Op 变更类型
type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Repository 通用服务依赖的仓储能力，pkg/db.Repository 满足该接口
type Repository[T any] interface {
	List(ctx context.Context) ([]*T, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	Save(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Hooks 生命周期钩子，均可为空
type Hooks[T any] struct {
	// Validate 写入前的字段校验
	Validate func(item *T) error
	// BeforeWrite 事务内、保存前执行，用于引用存在性检查
	BeforeWrite func(ctx context.Context, item *T) error
	// AfterWrite 事务内、保存后执行，用于维护关联
	AfterWrite func(ctx context.Context, item *T) error
	// BeforeDelete 事务内、删除前执行，用于删除保护与显式级联
	BeforeDelete func(ctx context.Context, item *T) error
	// Changed 事务提交后执行，用于发布事件
	Changed func(ctx context.Context, op Op, item *T)
	// Duplicate 违反唯一约束时给用户的提示
	Duplicate string
}

// Service 单实体通用服务
type Service[T any] struct {
	name  string
	repo  Repository[T]
	hooks Hooks[T]
}

// New 创建通用服务，name 用于错误信息
func New[T any](name string, repo Repository[T], hooks Hooks[T]) *Service[T] {
	return &Service[T]{name: name, repo: repo, hooks: hooks}
}

// Name 实体名称
func (s *Service[T]) Name() string { return s.name }

// List 返回全部记录
func (s *Service[T]) List(ctx context.Context) ([]*T, error) {
	return s.repo.List(ctx)
}

// Get 按主键获取，不存在时返回 NotFound
func (s *Service[T]) Get(ctx context.Context, id uint) (*T, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errorsx.NotFound(s.name)
	}
	return item, nil
}

// Create 校验并新增
func (s *Service[T]) Create(ctx context.Context, item *T) error {
	if err := s.write(ctx, item); err != nil {
		return err
	}
	s.changed(ctx, OpCreated, item)
	return nil
}

// Update 读取记录、应用修改、校验并保存
func (s *Service[T]) Update(ctx context.Context, id uint, apply func(item *T) error) (*T, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(item); err != nil {
		return nil, err
	}
	if err := s.write(ctx, item); err != nil {
		return nil, err
	}
	s.changed(ctx, OpUpdated, item)
	return item, nil
}

// Delete 在事务内执行删除保护与级联后删除
func (s *Service[T]) Delete(ctx context.Context, id uint) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		if s.hooks.BeforeDelete != nil {
			if err := s.hooks.BeforeDelete(ctx, item); err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.changed(ctx, OpDeleted, item)
	return nil
}

func (s *Service[T]) write(ctx context.Context, item *T) error {
	if s.hooks.Validate != nil {
		if err := s.hooks.Validate(item); err != nil {
			return err
		}
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context) error {
		if s.hooks.BeforeWrite != nil {
			if err := s.hooks.BeforeWrite(ctx, item); err != nil {
				return err
			}
		}
		if err := s.repo.Save(ctx, item); err != nil {
			return err
		}
		if s.hooks.AfterWrite != nil {
			return s.hooks.AfterWrite(ctx, item)
		}
		return nil
	})
	if db.IsDuplicate(err) {
		msg := s.hooks.Duplicate
		if msg == "" {
			msg = "a " + s.name + " with these values already exists"
		}
		return errorsx.Validation("%s", msg)
	}
	return err
}

func (s *Service[T]) changed(ctx context.Context, op Op, item *T) {
	if s.hooks.Changed != nil {
		s.hooks.Changed(ctx, op, item)
	}
}
