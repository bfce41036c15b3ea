package ratelimit

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestBuckets_Allow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	limiter := New(1, time.Second, 2, clock)

	assert.True(t, limiter.Allow(1))
	assert.True(t, limiter.Allow(1))
	assert.False(t, limiter.Allow(1), "burst exhausted")

	assert.True(t, limiter.Allow(2), "other users have their own bucket")

	clock.Advance(time.Second)
	assert.True(t, limiter.Allow(1))
	assert.False(t, limiter.Allow(1))
}
