package middleware

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RedisRateLimiter is a fixed-window counter shared by every instance.
type RedisRateLimiter struct {
	Redis  *redis.Client
	Prefix string
	Limit  int
	Window time.Duration
	log    *zap.Logger
}

func NewRedisRateLimiter(r *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{Redis: r, Prefix: prefix, Limit: limit, Window: window, log: logger}
}

func (r *RedisRateLimiter) key(client string) string {
	return fmt.Sprintf("%s:%s", r.Prefix, client)
}

// hit counts one request in the current window. EXPIRE NX rides along on
// every hit, so a key whose TTL was lost gets one on the next request.
func (r *RedisRateLimiter) hit(ctx context.Context, key string) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, r.Window)
		return nil
	})
	if incr.Err() != nil {
		return 0, incr.Err()
	}
	// INCR never yields 0; the transaction did not run.
	if incr.Val() == 0 {
		return 0, err
	}
	if err != nil {
		r.log.Warn("rate limiter window not set", zap.String("key", key), zap.Error(err))
	}
	return incr.Val(), nil
}

func (r *RedisRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
		defer cancel()

		count, err := r.hit(ctx, r.key(clientIP(c)))
		if err != nil {
			// Fail open: the limiter is best effort.
			r.log.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if count > int64(r.Limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}
		return c.Next()
	}
}

// IPRateLimiter is the in-process limiter used when redis is disabled.
type IPRateLimiter struct {
	visitors sync.Map
	limit    rate.Limit
	burst    int
	log      *zap.Logger
}

type visitor struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// NewIPRateLimiter allows `requests` per `window` per client with a full
// window's worth of burst.
func NewIPRateLimiter(requests int, window time.Duration, logger *zap.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		limit: rate.Limit(float64(requests) / window.Seconds()),
		burst: requests,
		log:   logger,
	}
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	v, _ := l.visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(l.limit, l.burst)})
	vi := v.(*visitor)
	vi.mu.Lock()
	vi.lastSeen = time.Now()
	vi.mu.Unlock()
	return vi.limiter
}

// Cleanup evicts idle visitors until ctx is cancelled.
func (l *IPRateLimiter) Cleanup(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-idle)
			l.visitors.Range(func(k, v any) bool {
				vi := v.(*visitor)
				vi.mu.Lock()
				stale := vi.lastSeen.Before(cutoff)
				vi.mu.Unlock()
				if stale {
					l.visitors.Delete(k)
				}
				return true
			})
		}
	}
}

func (l *IPRateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := clientIP(c)
		if !l.getLimiter(ip).Allow() {
			l.log.Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Path()))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}
		return c.Next()
	}
}

func clientIP(c *fiber.Ctx) string {
	ip := c.IP()
	if ip == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(ip); err == nil {
		return host
	}
	return ip
}
