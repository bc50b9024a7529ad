package application

import (
	"github.com/wyfcoding/storefront/internal/auth/domain"
	"github.com/wyfcoding/storefront/pkg/metrics"
)

// AuthService 认证服务门面，整合命令服务和查询服务
type AuthService struct {
	*AuthCommandService
	*AuthQueryService
}

// NewAuthService 创建认证服务门面实例
func NewAuthService(
	repo domain.UserRepository,
	sessions domain.SessionRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	policy SessionPolicy,
) *AuthService {
	return &AuthService{
		AuthCommandService: NewAuthCommandService(repo, sessions, publisher, m, policy),
		AuthQueryService:   NewAuthQueryService(repo, sessions),
	}
}
