// Package mysql 认证上下文的 GORM 仓储实现
package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/wyfcoding/storefront/internal/auth/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"gorm.io/gorm"
)

type userRepository struct{ db *gorm.DB }

func NewUserRepository(conn *gorm.DB) domain.UserRepository {
	return &userRepository{db: conn}
}

func (r *userRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.Transaction(ctx, r.db, fn)
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	conn := db.Conn(ctx, r.db)
	model := toUserModel(user)
	if model.ID == 0 {
		if err := conn.Create(model).Error; err != nil {
			return err
		}
		user.ID = model.ID
		user.CreatedAt = model.CreatedAt
		user.UpdatedAt = model.UpdatedAt
		return nil
	}

	return conn.
		Model(&UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"username":      model.Username,
			"email":         model.Email,
			"password_hash": model.PasswordHash,
			"first_name":    model.FirstName,
			"last_name":     model.LastName,
			"is_staff":      model.IsStaff,
			"is_active":     model.IsActive,
		}).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *userRepository) UpdateNames(ctx context.Context, id uint, firstName, lastName string) error {
	return db.Conn(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"first_name": firstName, "last_name": lastName}).Error
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uint) error {
	return db.Conn(ctx, r.db).
		Model(&UserModel{}).
		Where("id = ?", id).
		Update("last_login", time.Now()).Error
}

func (r *userRepository) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var model UserModel
	err := db.Conn(ctx, r.db).Where(cond, arg).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toUser(&model), nil
}
