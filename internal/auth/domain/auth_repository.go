package domain

import "context"

// UserRepository 用户仓储，查询类方法在记录不存在时返回 nil, nil
type UserRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	Save(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateNames(ctx context.Context, id uint, firstName, lastName string) error
	TouchLastLogin(ctx context.Context, id uint) error
}
