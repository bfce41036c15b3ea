package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, time.Hour, logger.NewNop()), mr
}

func TestRedis_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	eventAt := time.Date(2026, 12, 25, 18, 30, 0, 0, time.FixedZone("MSK", 3*60*60))
	in := &domain.WizardSession{
		UserID:      42,
		ChatID:      42,
		State:       domain.StateAwaitingAddress,
		Cities:      []string{"Moscow"},
		CategoryIDs: []int64{1, 2},
		Title:       "Concert",
		EventAt:     eventAt,
	}
	require.NoError(t, store.Save(ctx, in))

	out, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.StateAwaitingAddress, out.State)
	assert.Equal(t, []string{"Moscow"}, out.Cities)
	assert.Equal(t, []int64{1, 2}, out.CategoryIDs)
	assert.True(t, eventAt.Equal(out.EventAt))
	assert.Equal(t, 18, out.EventAt.Hour())

	require.NoError(t, store.Delete(ctx, 42))
	_, err = store.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_IdleTimeout(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.WizardSession{UserID: 1, State: domain.StateAwaitingTitle}))
	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.Save(ctx, &domain.WizardSession{UserID: 1, State: domain.StateAwaitingContent}))
	mr.FastForward(45 * time.Minute)

	s, err := store.Get(ctx, 1)
	require.NoError(t, err, "save refreshes the ttl")
	assert.Equal(t, domain.StateAwaitingContent, s.State)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedis_CorruptSession(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(key(5), "{not json"))
	_, err := store.Get(ctx, 5)
	assert.ErrorIs(t, err, ErrCorrupt)

	require.NoError(t, mr.Set(key(6), `{"user_id":7,"state":"awaiting_title"}`))
	_, err = store.Get(ctx, 6)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestRedis_UnavailableIsStorageError(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.Get(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, apperrors.CodeStorage, apperrors.GetCode(err))
}
