package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fathima-sithara/poseidon-service/internal/repository"
)

// TokenService owns the issued-token records.
type TokenService struct {
	repo repository.TokenRepository
	now  func() time.Time
}

func NewTokenService(repo repository.TokenRepository) *TokenService {
	return &TokenService{repo: repo, now: time.Now}
}

// RemoveExpired deletes tokens that expired strictly before now and returns
// how many were removed. Deletion is filter based, so concurrent logins are
// never affected.
func (s *TokenService) RemoveExpired(ctx context.Context) (int64, error) {
	return s.repo.RemoveExpired(ctx, s.now().UTC())
}

type expiredSweeper interface {
	RemoveExpired(ctx context.Context) (int64, error)
}

// TokenCleanup sweeps expired tokens on a fixed interval until its context
// is cancelled. A failed sweep is logged and the schedule continues.
type TokenCleanup struct {
	sweeper  expiredSweeper
	interval time.Duration
	log      *zap.Logger
}

func NewTokenCleanup(sweeper expiredSweeper, interval time.Duration, log *zap.Logger) *TokenCleanup {
	return &TokenCleanup{sweeper: sweeper, interval: interval, log: log}
}

func (c *TokenCleanup) Run(ctx context.Context) {
	c.log.Info("token cleanup started", zap.Duration("interval", c.interval))
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			c.log.Info("token cleanup stopped")
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *TokenCleanup) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("token cleanup panicked", zap.Any("panic", r))
		}
	}()

	n, err := c.sweeper.RemoveExpired(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.log.Error("error occurred while cleaning up expired tokens", zap.Error(err))
		return
	}
	c.log.Info("expired tokens cleaned up", zap.Int64("removed", n))
}
