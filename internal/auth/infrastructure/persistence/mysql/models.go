package mysql

import (
	"time"

	"github.com/wyfcoding/storefront/internal/auth/domain"
)

// UserModel 用户表映射
type UserModel struct {
	ID           uint       `gorm:"primaryKey;autoIncrement"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	Username     string     `gorm:"column:username;type:varchar(150);uniqueIndex;not null"`
	Email        string     `gorm:"column:email;type:varchar(254);uniqueIndex;not null"`
	PasswordHash string     `gorm:"column:password_hash;type:varchar(255);not null"`
	FirstName    string     `gorm:"column:first_name;type:varchar(150)"`
	LastName     string     `gorm:"column:last_name;type:varchar(150)"`
	IsStaff      bool       `gorm:"column:is_staff;not null"`
	IsActive     bool       `gorm:"column:is_active;not null"`
	LastLogin    *time.Time `gorm:"column:last_login"`
}

func (UserModel) TableName() string {
	return "users"
}

// Models 需要迁移的认证表
func Models() []any {
	return []any{&UserModel{}}
}

func toUserModel(user *domain.User) *UserModel {
	if user == nil {
		return nil
	}
	return &UserModel{
		ID:           user.ID,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsStaff:      user.IsStaff,
		IsActive:     user.IsActive,
		LastLogin:    user.LastLogin,
	}
}

func toUser(model *UserModel) *domain.User {
	if model == nil {
		return nil
	}
	return &domain.User{
		ID:           model.ID,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		Username:     model.Username,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		FirstName:    model.FirstName,
		LastName:     model.LastName,
		IsStaff:      model.IsStaff,
		IsActive:     model.IsActive,
		LastLogin:    model.LastLogin,
	}
}
