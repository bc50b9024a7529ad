// Package redis 登录会话的 Redis 存储
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/storefront/internal/auth/domain"
	"github.com/wyfcoding/storefront/pkg/cache"
)

const sessionPrefix = "auth:session:"

type sessionRedisRepository struct {
	cache  *cache.RedisCache
	prefix string
}

func NewSessionRedisRepository(client *redis.Client) domain.SessionRepository {
	return &sessionRedisRepository{
		cache:  cache.NewFromClient(client),
		prefix: sessionPrefix,
	}
}

func (r *sessionRedisRepository) key(token string) string {
	return fmt.Sprintf("%s%s", r.prefix, token)
}

func (r *sessionRedisRepository) Save(ctx context.Context, session *domain.AuthSession) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	return r.cache.SetJSON(ctx, r.key(session.Token), session, ttl)
}

func (r *sessionRedisRepository) Get(ctx context.Context, token string) (*domain.AuthSession, error) {
	if token == "" {
		return nil, nil
	}
	var session domain.AuthSession
	found, err := r.cache.GetJSON(ctx, r.key(token), &session)
	if err != nil || !found {
		return nil, err
	}
	if session.IsExpired() {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRedisRepository) Delete(ctx context.Context, token string) error {
	return r.cache.Delete(ctx, r.key(token))
}
