package post

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/events-telegram-bot/internal/calendar"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/repotest"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*Pgx, *calendar.Calendar, int64, int64) {
	pool := repotest.Pool(t)
	cal := calendar.New(time.FixedZone("MSK", 3*60*60), clockwork.NewRealClock())
	return NewPgx(pool, cal, logger.NewNop()), cal,
		repotest.CategoryID(t, pool, "music"), repotest.CategoryID(t, pool, "theatre")
}

func newPost(cal *calendar.Calendar, title string, cities []string, categories []int64, eventIn time.Duration) domain.NewPost {
	return domain.NewPost{
		AuthorID:    1,
		Title:       title,
		Content:     "content of " + title,
		CategoryIDs: categories,
		Cities:      cities,
		EventAt:     cal.Now().Add(eventIn).Truncate(time.Minute),
	}
}

func TestPgx_CreateAndGet(t *testing.T) {
	repo, cal, music, _ := newTestRepo(t)
	ctx := context.Background()

	np := newPost(cal, "Concert", []string{"Moscow"}, []int64{music}, time.Hour)
	np.Address = "Hall 1"
	created, err := repo.Create(ctx, np)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.Approved)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Concert", got.Title)
	assert.Equal(t, "Hall 1", got.Address)
	assert.Equal(t, "", got.URL)
	assert.Equal(t, []string{"Moscow"}, got.Cities)
	assert.Equal(t, []int64{music}, got.CategoryIDs)
	assert.Equal(t, []string{"music"}, got.CategoryNames())
	assert.Equal(t, cal.Format(np.EventAt), cal.Format(got.EventAt))
	assert.Equal(t, cal.Location(), got.EventAt.Location())

	_, err = repo.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPgx_CreateRejectsIncomplete(t *testing.T) {
	repo, cal, _, _ := newTestRepo(t)

	_, err := repo.Create(context.Background(), newPost(cal, "No categories", []string{"Moscow"}, nil, time.Hour))
	assert.ErrorIs(t, err, ErrIncompleteSubmission)

	_, err = repo.Create(context.Background(), newPost(cal, "Bad category", []string{"Moscow"}, []int64{999999}, time.Hour))
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestPgx_FeedOnlyApprovedMatchingPreferences(t *testing.T) {
	repo, cal, music, theatre := newTestRepo(t)
	ctx := context.Background()

	var ids []int64
	for i, tc := range []struct {
		cities     []string
		categories []int64
		approve    bool
	}{
		{[]string{"Moscow"}, []int64{music}, true},
		{[]string{"Moscow", "Saint Petersburg"}, []int64{theatre}, true},
		{[]string{"Saint Petersburg"}, []int64{music}, true},
		{[]string{"Moscow"}, []int64{music}, false},
	} {
		p, err := repo.Create(ctx, newPost(cal, "post", tc.cities, tc.categories, time.Duration(i+1)*time.Hour))
		require.NoError(t, err)
		if tc.approve {
			require.NoError(t, repo.SetApproved(ctx, p.ID, true))
		}
		ids = append(ids, p.ID)
	}

	prefs := domain.Preferences{UserID: 7, Cities: []string{"Moscow"}, CategoryIDs: []int64{music, theatre}}
	total, err := repo.CountFeed(ctx, prefs)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	page, err := repo.ListFeedPage(ctx, prefs, 5, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[0], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	all, err := repo.CountFeed(ctx, domain.Preferences{})
	require.NoError(t, err)
	assert.Equal(t, 3, all)

	second, err := repo.ListFeedPage(ctx, domain.Preferences{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, ids[2], second[0].ID)

	assert.ErrorIs(t, repo.SetApproved(ctx, 424242, true), ErrNotFound)
}

func TestPgx_LikedAndExpiry(t *testing.T) {
	repo, cal, music, _ := newTestRepo(t)
	ctx := context.Background()

	past := newPost(cal, "past", []string{"Moscow"}, []int64{music}, -48*time.Hour)
	past.ImageID = "old.jpg"
	expired, err := repo.Create(ctx, past)
	require.NoError(t, err)
	upcoming, err := repo.Create(ctx, newPost(cal, "upcoming", []string{"Moscow"}, []int64{music}, 2*time.Hour))
	require.NoError(t, err)

	pending, err := repo.Create(ctx, newPost(cal, "pending", []string{"Moscow"}, []int64{music}, 3*time.Hour))
	require.NoError(t, err)

	for _, id := range []int64{expired.ID, upcoming.ID} {
		require.NoError(t, repo.SetApproved(ctx, id, true))
	}
	for _, id := range []int64{expired.ID, upcoming.ID, pending.ID} {
		_, err := repo.pg.Exec(ctx, "INSERT INTO likes (user_id, post_id) VALUES ($1, $2)", 7, id)
		require.NoError(t, err)
	}

	liked, err := repo.CountLiked(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, liked, "likes on unapproved posts are not listed")

	cutoff := cal.Now().Add(-24 * time.Hour)
	info, err := repo.ListExpiredInfo(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, []domain.ExpiredInfo{{ID: expired.ID, ImageID: "old.jpg"}}, info)

	deleted, err := repo.DeleteExpired(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetByID(ctx, expired.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetByID(ctx, upcoming.ID)
	assert.NoError(t, err)

	page, err := repo.ListLikedPage(ctx, 7, 5, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, upcoming.ID, page[0].ID)

	again, err := repo.DeleteExpired(ctx, cutoff)
	require.NoError(t, err)
	assert.Zero(t, again)

	found, err := repo.Delete(ctx, upcoming.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = repo.Delete(ctx, upcoming.ID)
	require.NoError(t, err)
	assert.False(t, found)

	liked, err = repo.CountLiked(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, liked)
}

func TestPgx_ByAuthorListsPendingAndApproved(t *testing.T) {
	repo, cal, music, _ := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, newPost(cal, "first", []string{"Moscow"}, []int64{music}, time.Hour))
	require.NoError(t, err)
	second, err := repo.Create(ctx, newPost(cal, "second", []string{"Moscow"}, []int64{music}, 2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.SetApproved(ctx, first.ID, true))

	other := newPost(cal, "other", []string{"Moscow"}, []int64{music}, time.Hour)
	other.AuthorID = 2
	_, err = repo.Create(ctx, other)
	require.NoError(t, err)

	total, err := repo.CountByAuthor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	page, err := repo.ListByAuthor(ctx, 1, 5, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, second.ID, page[0].ID)
	assert.False(t, page[0].Approved)
	assert.Equal(t, first.ID, page[1].ID)
	assert.True(t, page[1].Approved)
}

func TestPgx_NotFoundSharesCommonRoot(t *testing.T) {
	repo, _, _, _ := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, apperrors.IsNotFound(err))
}
