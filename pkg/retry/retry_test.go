package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func fastConfig() Config {
	return Config{
		MaxRetries:      2,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		Multiplier:      1,
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), logger.NewNop(), "flaky", func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	}, fastConfig())

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoGivesUp(t *testing.T) {
	calls := 0
	err := Do(context.Background(), logger.NewNop(), "broken", func(context.Context) error {
		calls++
		return errors.New("still broken")
	}, fastConfig())

	assert.EqualError(t, err, "still broken")
	assert.Equal(t, 3, calls)
}

func TestDoPermanent(t *testing.T) {
	calls := 0
	sentinel := errors.New("gone")
	err := Do(context.Background(), logger.NewNop(), "permanent", func(context.Context) error {
		calls++
		return Permanent(sentinel)
	}, fastConfig())

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}
