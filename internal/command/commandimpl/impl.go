package commandimpl

import (
	"context"
	"sync"

	"github.com/orgball2608/events-telegram-bot/internal/blob"
	"github.com/orgball2608/events-telegram-bot/internal/calendar"
	"github.com/orgball2608/events-telegram-bot/internal/command"
	"github.com/orgball2608/events-telegram-bot/internal/feed"
	"github.com/orgball2608/events-telegram-bot/internal/likes"
	"github.com/orgball2608/events-telegram-bot/internal/moderation"
	"github.com/orgball2608/events-telegram-bot/internal/ratelimit"
	"github.com/orgball2608/events-telegram-bot/internal/render"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/post"
	"github.com/orgball2608/events-telegram-bot/internal/telegram"
	"github.com/orgball2608/events-telegram-bot/internal/wizard"
	"github.com/orgball2608/events-telegram-bot/pkg/config"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"go.uber.org/fx"
)

// Reviewer applies moderator decisions taken in the moderation chat.
type Reviewer interface {
	IsModerationChat(chatID int64) bool
	Approve(ctx context.Context, postID int64, messageID int) error
	Reject(ctx context.Context, postID int64, messageID int) error
}

type Opts struct {
	fx.In

	Telegram telegram.Client
	Wizard   *wizard.Service
	Feed     *feed.Service
	Likes    *likes.Service
	Posts    post.Repository
	Blobs    blob.Store
	Reviewer Reviewer
	Purger   moderation.Purger
	Renderer *render.Renderer
	Calendar *calendar.Calendar
	Limiter  ratelimit.Limiter
	Logger   logger.Logger
	Config   *config.Config
}

type CommandImpl struct {
	Telegram telegram.Client
	Wizard   *wizard.Service
	Feed     *feed.Service
	Likes    *likes.Service
	Posts    post.Repository
	Blobs    blob.Store
	Reviewer Reviewer
	Purger   moderation.Purger
	Render   *render.Renderer
	Calendar *calendar.Calendar
	Limiter  ratelimit.Limiter
	Logger   logger.Logger
	Config   *config.Config

	inflight sync.WaitGroup
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram: opts.Telegram,
		Wizard:   opts.Wizard,
		Feed:     opts.Feed,
		Likes:    opts.Likes,
		Posts:    opts.Posts,
		Blobs:    opts.Blobs,
		Reviewer: opts.Reviewer,
		Purger:   opts.Purger,
		Render:   opts.Renderer,
		Calendar: opts.Calendar,
		Limiter:  opts.Limiter,
		Logger:   opts.Logger.WithComponent("Commands"),
		Config:   opts.Config,
	}
}

var _ command.Client = (*CommandImpl)(nil)
