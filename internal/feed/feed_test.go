package feed

import (
	"context"
	"testing"

	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_post "github.com/orgball2608/events-telegram-bot/internal/repositories/post/mocks"
	mock_preference "github.com/orgball2608/events-telegram-bot/internal/repositories/preference/mocks"
)

const pageSize = 5

// approvedPosts fakes the store with n posts and honours limit/offset.
func approvedPosts(t *testing.T, n int) (*Service, *mock_post.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	posts := mock_post.NewMockRepository(ctrl)
	prefs := mock_preference.NewMockRepository(ctrl)

	prefs.EXPECT().Get(gomock.Any(), gomock.Any()).Return(domain.Preferences{}, nil).AnyTimes()
	posts.EXPECT().CountFeed(gomock.Any(), gomock.Any()).Return(n, nil).AnyTimes()
	posts.EXPECT().ListFeedPage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ domain.Preferences, limit, offset int) ([]*domain.Post, error) {
			var page []*domain.Post
			for i := offset; i < n && i < offset+limit; i++ {
				page = append(page, &domain.Post{ID: int64(i + 1)})
			}
			return page, nil
		}).AnyTimes()

	return New(posts, prefs, pageSize, logger.NewNop()), posts
}

func TestLastPageSize(t *testing.T) {
	for _, tc := range []struct {
		name     string
		total    int
		pages    int
		lastSize int
	}{
		{"zero", 0, 0, 0},
		{"one full page", pageSize, 1, pageSize},
		{"one extra", pageSize + 1, 2, 1},
		{"many", 23, 5, 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := approvedPosts(t, tc.total)

			first, err := svc.Page(context.Background(), KindFeed, 1, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.pages, first.Pages())

			if tc.pages == 0 {
				assert.True(t, first.Empty())
				assert.False(t, first.OutOfRange())
				return
			}

			last, err := svc.Page(context.Background(), KindFeed, 1, tc.pages-1)
			require.NoError(t, err)
			assert.Len(t, last.Posts, tc.total-(tc.pages-1)*pageSize)
			assert.Equal(t, tc.lastSize, len(last.Posts))
			assert.False(t, last.HasNext())
		})
	}
}

func TestRanksAreGlobal(t *testing.T) {
	svc, _ := approvedPosts(t, 12)

	w, err := svc.Page(context.Background(), KindFeed, 1, 1)
	require.NoError(t, err)
	require.Len(t, w.Posts, pageSize)

	var ranks []int
	for i := range w.Posts {
		ranks = append(ranks, w.Rank(i))
	}
	assert.Equal(t, []int{6, 7, 8, 9, 10}, ranks)
	assert.True(t, w.HasPrev())
	assert.True(t, w.HasNext())
}

func TestPagePastEndIsEmpty(t *testing.T) {
	svc, _ := approvedPosts(t, 3)

	w, err := svc.Page(context.Background(), KindFeed, 1, Next(1))
	require.NoError(t, err)
	assert.True(t, w.Empty())
	assert.True(t, w.OutOfRange())
	assert.Equal(t, 3, w.Total)
}

func TestNavigation(t *testing.T) {
	assert.Equal(t, 0, Prev(0))
	assert.Equal(t, 0, Prev(-3))
	assert.Equal(t, 2, Prev(3))
	assert.Equal(t, 1, Next(0))
	assert.Equal(t, 100, Next(99), "next never clamps against the total")
}

func TestLikedUsesLikeFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	posts := mock_post.NewMockRepository(ctrl)
	prefs := mock_preference.NewMockRepository(ctrl)
	ctx := context.Background()

	posts.EXPECT().CountLiked(ctx, int64(7)).Return(6, nil)
	posts.EXPECT().ListLikedPage(ctx, int64(7), pageSize, pageSize).Return([]*domain.Post{{ID: 1}}, nil)

	w, err := New(posts, prefs, pageSize, logger.NewNop()).Page(ctx, KindLiked, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, KindLiked, w.Kind)
	assert.Equal(t, 2, w.Pages())
	assert.Equal(t, 6, w.Rank(0))
}

func TestFeedPassesPreferences(t *testing.T) {
	ctrl := gomock.NewController(t)
	posts := mock_post.NewMockRepository(ctrl)
	prefs := mock_preference.NewMockRepository(ctrl)
	ctx := context.Background()

	want := domain.Preferences{UserID: 3, Cities: []string{"Moscow"}}
	prefs.EXPECT().Get(ctx, int64(3)).Return(want, nil)
	posts.EXPECT().CountFeed(ctx, want).Return(1, nil)
	posts.EXPECT().ListFeedPage(ctx, want, pageSize, 0).Return([]*domain.Post{{ID: 4}}, nil)

	w, err := New(posts, prefs, pageSize, logger.NewNop()).Page(ctx, KindFeed, 3, 0)
	require.NoError(t, err)
	assert.Len(t, w.Posts, 1)
}

func TestMineListsOwnPosts(t *testing.T) {
	ctrl := gomock.NewController(t)
	posts := mock_post.NewMockRepository(ctrl)
	prefs := mock_preference.NewMockRepository(ctrl)
	ctx := context.Background()

	posts.EXPECT().CountByAuthor(ctx, int64(9)).Return(2, nil)
	posts.EXPECT().ListByAuthor(ctx, int64(9), pageSize, 0).
		Return([]*domain.Post{{ID: 1, Approved: true}, {ID: 2}}, nil)

	w, err := New(posts, prefs, pageSize, logger.NewNop()).Page(ctx, KindMine, 9, 0)
	require.NoError(t, err)
	assert.Equal(t, KindMine, w.Kind)
	assert.Len(t, w.Posts, 2)
	assert.Equal(t, "mine", w.Kind.String())
}

func TestMinePastEndSkipsList(t *testing.T) {
	ctrl := gomock.NewController(t)
	posts := mock_post.NewMockRepository(ctrl)
	prefs := mock_preference.NewMockRepository(ctrl)
	ctx := context.Background()

	posts.EXPECT().CountByAuthor(ctx, int64(9)).Return(0, nil)

	w, err := New(posts, prefs, pageSize, logger.NewNop()).Page(ctx, KindMine, 9, 0)
	require.NoError(t, err)
	assert.True(t, w.Empty())
}
