package application

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/storefront/internal/auth/domain"
	"github.com/wyfcoding/storefront/pkg/db"
	"github.com/wyfcoding/storefront/pkg/errorsx"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/mq"
)

// CreateUserCommand 创建用户命令
type CreateUserCommand struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsStaff   bool
}

// LoginCommand 登录命令，Login 可以是用户名或邮箱
type LoginCommand struct {
	Login     string
	Password  string
	Remember  bool
	StaffOnly bool
}

// SessionPolicy 会话时长策略
type SessionPolicy struct {
	// TTL 未勾选“记住我”时的服务端会话时长
	TTL time.Duration
	// RememberTTL 勾选“记住我”时的会话时长
	RememberTTL time.Duration
}

func (p SessionPolicy) ttl(remember bool) time.Duration {
	if remember && p.RememberTTL > 0 {
		return p.RememberTTL
	}
	if p.TTL > 0 {
		return p.TTL
	}
	return 24 * time.Hour
}

var errInvalidCredentials = errorsx.Unauthorized("invalid username or password")

// AuthCommandService 认证命令服务
type AuthCommandService struct {
	repo      domain.UserRepository
	sessions  domain.SessionRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	policy    SessionPolicy
}

// NewAuthCommandService 创建认证命令服务实例
func NewAuthCommandService(
	repo domain.UserRepository,
	sessions domain.SessionRepository,
	publisher domain.EventPublisher,
	m *metrics.Metrics,
	policy SessionPolicy,
) *AuthCommandService {
	return &AuthCommandService{
		repo:      repo,
		sessions:  sessions,
		publisher: publisher,
		metrics:   m,
		policy:    policy,
	}
}

// CreateUser 创建用户；在调用方事务中执行时随事务一起回滚
func (s *AuthCommandService) CreateUser(ctx context.Context, cmd CreateUserCommand) (*domain.User, error) {
	user, err := domain.NewUser(cmd.Username, cmd.Email, cmd.Password)
	if err != nil {
		return nil, err
	}
	user.FirstName = strings.TrimSpace(cmd.FirstName)
	user.LastName = strings.TrimSpace(cmd.LastName)
	user.IsStaff = cmd.IsStaff

	if existing, err := s.repo.GetByUsername(ctx, user.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errorsx.Validation("this username is already taken")
	}
	if existing, err := s.repo.GetByEmail(ctx, user.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, errorsx.Validation("this email is already registered")
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if db.IsDuplicate(err) {
			return nil, errorsx.Validation("username or email already in use")
		}
		return nil, err
	}

	mq.Emit(ctx, s.publisher, domain.TopicUserRegistered, strconv.FormatUint(uint64(user.ID), 10), domain.UserRegisteredEvent{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Timestamp: time.Now(),
	})
	return user, nil
}

// Login 校验凭据并创建会话；StaffOnly 时非员工账号按凭据错误处理
func (s *AuthCommandService) Login(ctx context.Context, cmd LoginCommand) (*domain.AuthSession, *domain.User, error) {
	user, err := s.findByLogin(ctx, strings.TrimSpace(cmd.Login))
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !user.IsActive || !user.CheckPassword(cmd.Password) || (cmd.StaffOnly && !user.IsStaff) {
		s.metrics.Login(false)
		logger.Info(ctx, "login rejected", "login", cmd.Login, "staff_only", cmd.StaffOnly)
		return nil, nil, errInvalidCredentials
	}

	session, err := s.StartSession(ctx, user, cmd.Remember)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// StartSession 为已认证用户创建会话
func (s *AuthCommandService) StartSession(ctx context.Context, user *domain.User, remember bool) (*domain.AuthSession, error) {
	now := time.Now()
	session := &domain.AuthSession{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		IsStaff:   user.IsStaff,
		Remember:  remember,
		CreatedAt: now,
		ExpiresAt: now.Add(s.policy.ttl(remember)),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, errorsx.Wrap(err, "save session")
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "failed to update last login", "user_id", user.ID, "error", err)
	}
	s.metrics.Login(true)

	mq.Emit(ctx, s.publisher, domain.TopicUserLoggedIn, strconv.FormatUint(uint64(user.ID), 10), domain.UserLoggedInEvent{
		UserID:    user.ID,
		Username:  user.Username,
		Staff:     user.IsStaff,
		Timestamp: now,
	})
	return session, nil
}

// Logout 删除会话
func (s *AuthCommandService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, token)
}

// UpdateNames 更新用户姓名
func (s *AuthCommandService) UpdateNames(ctx context.Context, userID uint, firstName, lastName string) error {
	return s.repo.UpdateNames(ctx, userID, strings.TrimSpace(firstName), strings.TrimSpace(lastName))
}

// EnsureStaff 确保存在指定的员工账号，已存在的同名用户会被提升为员工
func (s *AuthCommandService) EnsureStaff(ctx context.Context, username, email, password string) error {
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.IsStaff {
			return nil
		}
		existing.IsStaff = true
		logger.Info(ctx, "promoting existing user to staff", "username", username)
		return s.repo.Save(ctx, existing)
	}

	_, err = s.CreateUser(ctx, CreateUserCommand{
		Username: username,
		Email:    email,
		Password: password,
		IsStaff:  true,
	})
	if err == nil {
		logger.Info(ctx, "staff account created", "username", username)
	}
	return err
}

func (s *AuthCommandService) findByLogin(ctx context.Context, login string) (*domain.User, error) {
	if login == "" {
		return nil, nil
	}
	user, err := s.repo.GetByUsername(ctx, login)
	if err != nil || user != nil {
		return user, err
	}
	if !strings.Contains(login, "@") {
		return nil, nil
	}
	return s.repo.GetByEmail(ctx, login)
}
