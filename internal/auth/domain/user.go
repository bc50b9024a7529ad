package domain

import (
	"strings"
	"time"

	"github.com/wyfcoding/storefront/pkg/errorsx"
	"golang.org/x/crypto/bcrypt"
)

// User 登录身份
type User struct {
	ID           uint       `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	IsStaff      bool       `json:"is_staff"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// NewUser 创建启用状态的用户并设置密码
func NewUser(username, email, password string) (*User, error) {
	u := &User{
		Username: strings.TrimSpace(username),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		IsActive: true,
	}
	if u.Username == "" {
		return nil, errorsx.Validation("username is required")
	}
	if u.Email == "" {
		return nil, errorsx.Validation("email is required")
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword 以 bcrypt 保存密码摘要
func (u *User) SetPassword(password string) error {
	if password == "" {
		return errorsx.Validation("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errorsx.Wrap(err, "hash password")
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// FullName 姓名，缺失时回落到用户名
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
