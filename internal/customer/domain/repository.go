package domain

import "context"

// Repository 按主键操作的通用仓储能力
type Repository[T any] interface {
	List(ctx context.Context) ([]*T, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	Save(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type GroupRepository interface {
	Repository[CustomerGroup]
}

// CustomerRepository 客户仓储，GetByID 与 List 预加载分组
type CustomerRepository interface {
	Repository[Customer]
	GetByUserID(ctx context.Context, userID uint) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	// ClearGroup 将引用该分组的客户置空
	ClearGroup(ctx context.Context, groupID uint) error
	TouchLastVisit(ctx context.Context, id uint) error
}

// AddressRepository 地址仓储
type AddressRepository interface {
	Repository[Address]
	ListByCustomer(ctx context.Context, customerID uint) ([]*Address, error)
	DeleteByCustomer(ctx context.Context, customerID uint) error
	// ClearDefault 取消该客户除 exceptID 外所有地址的默认标记
	ClearDefault(ctx context.Context, customerID, exceptID uint) error
	MarkDefault(ctx context.Context, id uint) error
}
