// Package ratelimit throttles click submissions per user. Two layers: a
// cheap in-process token bucket that absorbs tight loops before they reach
// Redis, and a Redis fixed window shared across API instances.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/clickempire/click-empire/internal/apperr"
	"github.com/clickempire/click-empire/internal/config"
	"github.com/clickempire/click-empire/internal/metrics"
	"github.com/clickempire/click-empire/pkg/logger"
)

const windowKeyPrefix = "ratelimit:clicks:"

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter throttles click submissions per user ID.
type Limiter struct {
	cfg    config.RateLimitConfig
	client *redis.Client
	log    *logger.Logger

	mu       sync.Mutex
	visitors map[string]*visitor
}

// New creates a limiter. The Redis client may be nil, in which case only the
// in-process bucket applies.
func New(cfg config.RateLimitConfig, client *redis.Client, log *logger.Logger) *Limiter {
	l := &Limiter{
		cfg:      cfg,
		client:   client,
		log:      log,
		visitors: make(map[string]*visitor),
	}
	if cfg.Enabled {
		go l.cleanupVisitors()
	}
	return l
}

// Allow reports whether the user may submit a click right now. A Redis outage
// fails open: clicks keep flowing on the in-process bucket alone.
func (l *Limiter) Allow(ctx context.Context, userID string) error {
	if !l.cfg.Enabled {
		return nil
	}

	if !l.getLimiter(userID).Allow() {
		metrics.RateLimitedTotal.Inc()
		return apperr.New(apperr.KindRateLimited, "too many clicks, slow down")
	}

	if l.client == nil {
		return nil
	}

	count, err := l.bumpWindow(ctx, userID)
	if err != nil {
		l.log.Warn().Err(err).Msg("Rate limit window check failed, failing open")
		return nil
	}
	if count > int64(l.cfg.WindowClicks) {
		metrics.RateLimitedTotal.Inc()
		return apperr.Newf(apperr.KindRateLimited,
			"click window of %d per %s exceeded", l.cfg.WindowClicks, l.cfg.Window())
	}
	return nil
}

// bumpWindow increments the user's fixed-window counter, stamping the TTL on
// the first hit of each window.
func (l *Limiter) bumpWindow(ctx context.Context, userID string) (int64, error) {
	key := windowKeyPrefix + userID

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump click window: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.cfg.Window()).Err(); err != nil {
			return 0, fmt.Errorf("failed to stamp window TTL: %w", err)
		}
	}
	return count, nil
}

func (l *Limiter) getLimiter(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(l.cfg.ClicksPerSec), l.cfg.Burst)}
		l.visitors[userID] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (l *Limiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		l.mu.Lock()
		for id, v := range l.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(l.visitors, id)
			}
		}
		l.mu.Unlock()
	}
}
