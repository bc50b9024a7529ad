// Package mysql 客户上下文的 GORM 仓储实现
package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/storefront/internal/customer/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/gorm"
)

type groupRepository struct {
	*db.Repository[domain.CustomerGroup]
}

func NewGroupRepository(conn *gorm.DB) domain.GroupRepository {
	return &groupRepository{db.NewRepository[domain.CustomerGroup](conn, "name")}
}

type customerRepository struct {
	*db.Repository[domain.Customer]
}

func NewCustomerRepository(conn *gorm.DB) domain.CustomerRepository {
	return &customerRepository{db.NewRepository[domain.Customer](conn, "registered_at DESC, id DESC", "Group")}
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID uint) (*domain.Customer, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *customerRepository) ClearGroup(ctx context.Context, groupID uint) error {
	return r.Conn(ctx).
		Model(&domain.Customer{}).
		Where("group_id = ?", groupID).
		Update("group_id", nil).Error
}

func (r *customerRepository) TouchLastVisit(ctx context.Context, id uint) error {
	return r.Conn(ctx).
		Model(&domain.Customer{}).
		Where("id = ?", id).
		Update("last_visit", time.Now()).Error
}

func (r *customerRepository) first(ctx context.Context, cond string, arg any) (*domain.Customer, error) {
	var c domain.Customer
	err := r.Conn(ctx).Preload("Group").Where(cond, arg).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

type addressRepository struct {
	*db.Repository[domain.Address]
}

func NewAddressRepository(conn *gorm.DB) domain.AddressRepository {
	return &addressRepository{db.NewRepository[domain.Address](conn, "customer_id, id", "Customer")}
}

func (r *addressRepository) ListByCustomer(ctx context.Context, customerID uint) ([]*domain.Address, error) {
	var items []*domain.Address
	err := r.Conn(ctx).
		Where("customer_id = ?", customerID).
		Order("is_default DESC, id").
		Find(&items).Error
	return items, err
}

func (r *addressRepository) DeleteByCustomer(ctx context.Context, customerID uint) error {
	return r.Conn(ctx).Where("customer_id = ?", customerID).Delete(&domain.Address{}).Error
}

func (r *addressRepository) ClearDefault(ctx context.Context, customerID, exceptID uint) error {
	return r.Conn(ctx).
		Model(&domain.Address{}).
		Where("customer_id = ? AND id <> ? AND is_default = ?", customerID, exceptID, true).
		Update("is_default", false).Error
}

func (r *addressRepository) MarkDefault(ctx context.Context, id uint) error {
	return r.Conn(ctx).
		Model(&domain.Address{}).
		Where("id = ?", id).
		Update("is_default", true).Error
}

// Models 返回需要迁移的表模型
func Models() []any {
	return []any{
		&domain.CustomerGroup{},
		&domain.Customer{},
		&domain.Address{},
	}
}
