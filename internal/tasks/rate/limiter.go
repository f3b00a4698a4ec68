package rate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limit is a sliding-window cap.
type Limit struct {
	Window  time.Duration
	MaxJobs int
}

// EmailRateLimiter caps outbound mail per recipient domain so a burst of
// order activity cannot get the sender address greylisted. The window lives
// in redis, shared across worker processes.
type EmailRateLimiter struct {
	redis *redis.Client
	limit Limit
}

func NewEmailRateLimiter(redis *redis.Client, limit Limit) *EmailRateLimiter {
	return &EmailRateLimiter{redis: redis, limit: limit}
}

// Allow reports whether another send to the recipient's domain fits in the
// current window, recording the attempt either way.
func (l *EmailRateLimiter) Allow(ctx context.Context, recipient string) (bool, error) {
	key := fmt.Sprintf("email_rate_limit:%s", domainOf(recipient))

	pipe := l.redis.Pipeline()
	now := time.Now().Unix()
	windowStart := now - int64(l.limit.Window.Seconds())

	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.Expire(ctx, key, l.limit.Window*2)

	results, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("redis pipeline error: %w", err)
	}

	count := results[1].(*redis.IntCmd).Val()
	return count < int64(l.limit.MaxJobs), nil
}

func domainOf(email string) string {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		return strings.ToLower(email[at+1:])
	}
	return strings.ToLower(email)
}
