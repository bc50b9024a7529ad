package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/auth/domain"
	"github.com/wyfcoding/storefront/pkg/errorsx"
)

// AuthQueryService 认证查询服务
type AuthQueryService struct {
	repo     domain.UserRepository
	sessions domain.SessionRepository
}

// NewAuthQueryService 创建认证查询服务实例
func NewAuthQueryService(repo domain.UserRepository, sessions domain.SessionRepository) *AuthQueryService {
	return &AuthQueryService{repo: repo, sessions: sessions}
}

// GetUser 根据ID获取用户信息
func (s *AuthQueryService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errorsx.NotFound("user")
	}
	return user, nil
}

// Authenticate 根据会话令牌解析当前用户，会话无效或用户停用时返回 nil
func (s *AuthQueryService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil || session == nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, session.UserID)
	if err != nil || user == nil || !user.IsActive {
		return nil, err
	}
	return user, nil
}
