package moderation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/events-telegram-bot/internal/calendar"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/render"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/post"
	"github.com/orgball2608/events-telegram-bot/internal/screening"
	"github.com/orgball2608/events-telegram-bot/internal/telegram"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/orgball2608/events-telegram-bot/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_blob "github.com/orgball2608/events-telegram-bot/internal/blob/mocks"
	mock_moderation "github.com/orgball2608/events-telegram-bot/internal/moderation/mocks"
	mock_post "github.com/orgball2608/events-telegram-bot/internal/repositories/post/mocks"
	mock_telegram "github.com/orgball2608/events-telegram-bot/internal/telegram/mocks"
)

const moderationChat = int64(-100500)

type fixture struct {
	chat   *Chat
	tg     *mock_telegram.MockClient
	posts  *mock_post.MockRepository
	blobs  *mock_blob.MockStore
	purger *mock_moderation.MockPurger
}

func newFixture(t *testing.T, chatID int64) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := fixture{
		tg:     mock_telegram.NewMockClient(ctrl),
		posts:  mock_post.NewMockRepository(ctrl),
		blobs:  mock_blob.NewMockStore(ctrl),
		purger: mock_moderation.NewMockPurger(ctrl),
	}
	f.chat = &Chat{
		chatID:   chatID,
		telegram: f.tg,
		posts:    f.posts,
		blobs:    f.blobs,
		purger:   f.purger,
		render:   render.New(calendar.New(time.UTC, clockwork.NewFakeClock())),
		retry:    retry.Config{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond, Multiplier: 1},
		logger:   logger.NewNop(),
	}
	return f
}

func pendingPost() *domain.Post {
	return &domain.Post{ID: 8, AuthorID: 77, Title: "Concert", Content: "casino night", Cities: []string{"Moscow"}}
}

func TestReadyRequiresChat(t *testing.T) {
	assert.ErrorIs(t, newFixture(t, 0).chat.Ready(), ErrNotConfigured)
	assert.NoError(t, newFixture(t, moderationChat).chat.Ready())
}

func TestSubmitSuspiciousCarriesBanner(t *testing.T) {
	f := newFixture(t, moderationChat)
	verdict := screening.Verdict{Suspicious: true, Reasons: []string{"banned words"}}

	f.tg.EXPECT().SendMessage(moderationChat, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ int64, text string, kb telegram.Keyboard) (int, error) {
			assert.Contains(t, text, "SUSPICIOUS POST")
			assert.Contains(t, text, "banned words")
			assert.Contains(t, text, "#8")
			require.NotNil(t, kb)
			assert.Len(t, kb.InlineKeyboard[0], 2)
			return 1, nil
		})

	require.NoError(t, f.chat.Submit(context.Background(), pendingPost(), verdict))
}

func TestSubmitRetriesUnsentMessage(t *testing.T) {
	f := newFixture(t, moderationChat)
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	throttled := fmt.Errorf("failed to send message: %w", &tgbotapi.Error{Code: 429, Message: "Too Many Requests"})

	gomock.InOrder(
		f.tg.EXPECT().SendMessage(moderationChat, gomock.Any(), gomock.Any()).Return(0, refused),
		f.tg.EXPECT().SendMessage(moderationChat, gomock.Any(), gomock.Any()).Return(0, throttled),
		f.tg.EXPECT().SendMessage(moderationChat, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ int64, text string, _ telegram.Keyboard) (int, error) {
				assert.NotContains(t, text, "SUSPICIOUS")
				return 2, nil
			}),
	)

	require.NoError(t, f.chat.Submit(context.Background(), pendingPost(), screening.Verdict{}))
}

func TestSubmitDoesNotResendAfterLostResponse(t *testing.T) {
	f := newFixture(t, moderationChat)

	f.tg.EXPECT().SendMessage(moderationChat, gomock.Any(), gomock.Any()).Return(0, errors.New("read tcp: i/o timeout"))

	err := f.chat.Submit(context.Background(), pendingPost(), screening.Verdict{})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeModeration, apperrors.GetCode(err))
}

func TestSubmitDoesNotResendRejectedMessage(t *testing.T) {
	f := newFixture(t, moderationChat)

	f.tg.EXPECT().SendMessage(moderationChat, gomock.Any(), gomock.Any()).
		Return(0, &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"})

	require.Error(t, f.chat.Submit(context.Background(), pendingPost(), screening.Verdict{}))
}

func TestSubmitWithImageSendsPhoto(t *testing.T) {
	f := newFixture(t, moderationChat)
	p := pendingPost()
	p.ImageID = "x.jpg"

	f.blobs.EXPECT().Fetch(gomock.Any(), "x.jpg").Return([]byte("img"), true, nil)
	f.tg.EXPECT().SendPhoto(moderationChat, []byte("img"), gomock.Any(), gomock.Any()).Return(3, nil)

	require.NoError(t, f.chat.Submit(context.Background(), p, screening.Verdict{}))
}

func TestApprove(t *testing.T) {
	f := newFixture(t, moderationChat)
	ctx := context.Background()

	f.posts.EXPECT().SetApproved(ctx, int64(8), true).Return(nil)
	f.posts.EXPECT().GetByID(ctx, int64(8)).Return(pendingPost(), nil)
	f.tg.EXPECT().SendMessage(int64(77), gomock.Any(), gomock.Any()).Return(10, nil)
	f.tg.EXPECT().EditKeyboard(moderationChat, 42, nil).Return(telegram.EditApplied, nil)
	f.tg.EXPECT().SendMessage(moderationChat, gomock.Any(), gomock.Any()).Return(11, nil)

	require.NoError(t, f.chat.Approve(ctx, 8, 42))
}

func TestRejectPurges(t *testing.T) {
	f := newFixture(t, moderationChat)
	ctx := context.Background()

	f.posts.EXPECT().GetByID(ctx, int64(8)).Return(pendingPost(), nil)
	f.purger.EXPECT().Purge(ctx, int64(8)).Return(true, nil)
	f.tg.EXPECT().SendMessage(int64(77), gomock.Any(), gomock.Any()).Return(10, nil)
	f.tg.EXPECT().EditKeyboard(moderationChat, 42, nil).Return(telegram.EditUnchanged, nil)
	f.tg.EXPECT().SendMessage(moderationChat, gomock.Any(), gomock.Any()).Return(11, nil)

	require.NoError(t, f.chat.Reject(ctx, 8, 42))
}

func TestRejectGonePost(t *testing.T) {
	f := newFixture(t, moderationChat)
	ctx := context.Background()

	f.posts.EXPECT().GetByID(ctx, int64(8)).Return(nil, post.ErrNotFound)
	f.purger.EXPECT().Purge(ctx, int64(8)).Return(false, nil)
	f.tg.EXPECT().EditKeyboard(moderationChat, 42, nil).Return(telegram.EditApplied, nil)
	f.tg.EXPECT().SendMessage(moderationChat, "Post no longer exists.", nil).Return(11, nil)

	require.NoError(t, f.chat.Reject(ctx, 8, 42))
}
