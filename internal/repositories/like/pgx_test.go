package like

import (
	"context"
	"testing"

	"github.com/orgball2608/events-telegram-bot/internal/repositories/repotest"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPost(t *testing.T, repo *PgxRepository) int64 {
	t.Helper()
	var id int64
	err := repo.pool.QueryRow(context.Background(),
		`INSERT INTO posts (author_id, title, content, cities, event_at) VALUES (1, 'Concert', 'Live music', '{Moscow}', now()) RETURNING id`,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestPgxRepository_InsertIsIdempotent(t *testing.T) {
	repo := NewPgxRepository(repotest.Pool(t), logger.NewNop())
	ctx := context.Background()
	postID := seedPost(t, repo)

	inserted, err := repo.Insert(ctx, 7, postID)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Insert(ctx, 7, postID)
	require.NoError(t, err)
	assert.False(t, inserted)

	exists, err := repo.Exists(ctx, 7, postID)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := repo.CountByPost(ctx, postID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	removed, err := repo.Delete(ctx, 7, postID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, 7, postID)
	require.NoError(t, err)
	assert.False(t, removed)

	exists, err = repo.Exists(ctx, 7, postID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPgxRepository_InsertUnknownPost(t *testing.T) {
	repo := NewPgxRepository(repotest.Pool(t), logger.NewNop())

	_, err := repo.Insert(context.Background(), 7, 987654)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
