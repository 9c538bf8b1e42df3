package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dailynotes/notes-api/internal/core/domain"
)

const (
	defaultMaxLoginAttempts = 5
	defaultLoginCooldown    = 15 * time.Minute
)

// LoginLimiter counts failed logins per email in fixed windows.
// Key format: login_fail:<email>
type LoginLimiter struct {
	client      redis.Cmdable
	maxAttempts int
	cooldown    time.Duration
}

// NewLoginLimiter wraps client. Non-positive limits fall back to defaults.
func NewLoginLimiter(client redis.Cmdable, maxAttempts int, cooldown time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxLoginAttempts
	}
	if cooldown <= 0 {
		cooldown = defaultLoginCooldown
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, cooldown: cooldown}
}

// Check returns domain.ErrTooManyAttempts once the failure budget is spent.
func (l *LoginLimiter) Check(ctx context.Context, email string) error {
	count, err := l.client.Get(ctx, l.key(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("login limiter check: %w", err)
	}
	if count >= int64(l.maxAttempts) {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// Fail records one failed attempt. The window starts at the first failure.
func (l *LoginLimiter) Fail(ctx context.Context, email string) error {
	key := l.key(email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.cooldown).Err(); err != nil {
			return fmt.Errorf("login limiter expire: %w", err)
		}
	}
	if count >= int64(l.maxAttempts) {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, l.key(email)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(email string) string {
	return fmt.Sprintf("login_fail:%s", email)
}
