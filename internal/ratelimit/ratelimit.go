// Package ratelimit throttles inbound updates per telegram user.
package ratelimit

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/events-telegram-bot/pkg/config"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(userID int64) bool
}

// Buckets keeps one token bucket per user.
type Buckets struct {
	mu      sync.Mutex
	buckets map[int64]*rate.Limiter
	every   rate.Limit
	burst   int
	clock   clockwork.Clock
}

// New allows requests per window with the given burst.
// New(5, time.Second, 10) admits five updates a second, ten in a row.
func New(requests int, per time.Duration, burst int, clock clockwork.Clock) *Buckets {
	if requests <= 0 {
		requests = 1
	}
	return &Buckets{
		buckets: make(map[int64]*rate.Limiter),
		every:   rate.Every(per / time.Duration(requests)),
		burst:   burst,
		clock:   clock,
	}
}

func NewFromConfig(cfg *config.Config) *Buckets {
	return New(cfg.RateLimit.Requests, cfg.RateLimit.Per, cfg.RateLimit.Burst, clockwork.NewRealClock())
}

var _ Limiter = (*Buckets)(nil)

func (b *Buckets) Allow(userID int64) bool {
	b.mu.Lock()
	bucket, ok := b.buckets[userID]
	if !ok {
		bucket = rate.NewLimiter(b.every, b.burst)
		b.buckets[userID] = bucket
	}
	b.mu.Unlock()

	return bucket.AllowN(b.clock.Now(), 1)
}
