package moderation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/events-telegram-bot/internal/blob"
	"github.com/orgball2608/events-telegram-bot/internal/callback"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/render"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/post"
	"github.com/orgball2608/events-telegram-bot/internal/screening"
	"github.com/orgball2608/events-telegram-bot/internal/telegram"
	"github.com/orgball2608/events-telegram-bot/pkg/config"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
	"github.com/orgball2608/events-telegram-bot/pkg/formatter"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/orgball2608/events-telegram-bot/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config   *config.Config
	Telegram telegram.Client
	Posts    post.Repository
	Blobs    blob.Store
	Purger   Purger
	Renderer *render.Renderer
	Logger   logger.Logger
}

// Chat reviews posts in one telegram chat.
type Chat struct {
	chatID   int64
	telegram telegram.Client
	posts    post.Repository
	blobs    blob.Store
	purger   Purger
	render   *render.Renderer
	retry    retry.Config
	logger   logger.Logger
}

func New(opts Opts) *Chat {
	return &Chat{
		chatID:   opts.Config.Telegram.ModerationChat,
		telegram: opts.Telegram,
		posts:    opts.Posts,
		blobs:    opts.Blobs,
		purger:   opts.Purger,
		render:   opts.Renderer,
		retry:    retry.DefaultConfig(),
		logger:   opts.Logger.WithComponent("Moderation"),
	}
}

var _ Handoff = (*Chat)(nil)

func (c *Chat) Ready() error {
	if c.chatID == 0 {
		return ErrNotConfigured
	}
	return nil
}

// IsModerationChat reports whether decisions may come from chatID.
func (c *Chat) IsModerationChat(chatID int64) bool {
	return c.chatID != 0 && chatID == c.chatID
}

func (c *Chat) Submit(ctx context.Context, p *domain.Post, verdict screening.Verdict) error {
	if err := c.Ready(); err != nil {
		return err
	}

	log := c.logger.With("post_id", p.ID, "user_id", p.AuthorID)
	kb := decisionKeyboard(p.ID)

	var photo []byte
	if p.ImageID != "" {
		data, ok, err := c.blobs.Fetch(ctx, p.ImageID)
		if err != nil {
			log.Warn("Failed to load post media for review", "media", p.ImageID, "error", err)
		} else if ok {
			photo = data
		}
	}

	err := retry.Do(ctx, log, "moderation submit", func(ctx context.Context) error {
		var err error
		if photo != nil {
			_, err = c.telegram.SendPhoto(c.chatID, photo, Artifact(c.render.PostCaption(p, 0), p.ID, verdict), kb)
		} else {
			_, err = c.telegram.SendMessage(c.chatID, Artifact(c.render.Post(p, 0), p.ID, verdict), kb)
		}
		if err != nil && !resendable(err) {
			return retry.Permanent(err)
		}
		return err
	}, c.retry)
	if err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeModeration, fmt.Sprintf("submit post %d for moderation", p.ID))
	}

	log.Info("Post submitted for moderation", "suspicious", verdict.Suspicious)
	return nil
}

// resendable reports whether a failed send surely left nothing in the chat.
// A lost response after the request went out may mean the artifact was
// posted, so only refusals and failed dials are retried.
func resendable(err error) bool {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// Artifact prefixes a rendered post with the review header and, for
// suspicious posts, a warning banner with the matched reasons.
func Artifact(card string, postID int64, verdict screening.Verdict) string {
	var b strings.Builder
	if verdict.Suspicious {
		fmt.Fprintf(&b, "⚠️ <b>SUSPICIOUS POST</b>\nReasons: %s\n\n", formatter.EscapeHTML(verdict.Summary()))
	}
	fmt.Fprintf(&b, "🆕 New event #%d awaiting review\n\n", postID)
	b.WriteString(card)
	return b.String()
}

// Approve publishes the post and tells its author.
func (c *Chat) Approve(ctx context.Context, postID int64, messageID int) error {
	log := c.logger.With("post_id", postID)

	if err := c.posts.SetApproved(ctx, postID, true); err != nil {
		if errors.Is(err, post.ErrNotFound) {
			c.closeReview(messageID, "Post no longer exists.")
			return nil
		}
		return fmt.Errorf("approve post %d: %w", postID, err)
	}

	p, err := c.posts.GetByID(ctx, postID)
	if err != nil {
		log.Warn("Approved post vanished before notifying author", "error", err)
	} else {
		c.notifyAuthor(p.AuthorID, fmt.Sprintf("✅ Your event <b>%s</b> was approved and is now in the feed.", formatter.EscapeHTML(p.Title)))
	}

	c.closeReview(messageID, fmt.Sprintf("✅ Post #%d approved.", postID))
	log.Info("Post approved")
	return nil
}

// Reject removes the post through the purger, the only path that deletes posts.
func (c *Chat) Reject(ctx context.Context, postID int64, messageID int) error {
	log := c.logger.With("post_id", postID)

	p, err := c.posts.GetByID(ctx, postID)
	if err != nil && !errors.Is(err, post.ErrNotFound) {
		return fmt.Errorf("load post %d: %w", postID, err)
	}

	found, err := c.purger.Purge(ctx, postID)
	if err != nil {
		return fmt.Errorf("reject post %d: %w", postID, err)
	}
	if !found {
		c.closeReview(messageID, "Post no longer exists.")
		return nil
	}

	if p != nil {
		c.notifyAuthor(p.AuthorID, fmt.Sprintf("❌ Your event <b>%s</b> was rejected by moderators.", formatter.EscapeHTML(p.Title)))
	}

	c.closeReview(messageID, fmt.Sprintf("❌ Post #%d rejected.", postID))
	log.Info("Post rejected")
	return nil
}

func (c *Chat) closeReview(messageID int, status string) {
	if messageID != 0 {
		if _, err := c.telegram.EditKeyboard(c.chatID, messageID, nil); err != nil {
			c.logger.Warn("Failed to remove review buttons", "message_id", messageID, "error", err)
		}
	}
	if _, err := c.telegram.SendMessage(c.chatID, status, nil); err != nil {
		c.logger.Warn("Failed to report review status", "error", err)
	}
}

func (c *Chat) notifyAuthor(authorID int64, text string) {
	if _, err := c.telegram.SendMessage(authorID, text, nil); err != nil {
		c.logger.Warn("Failed to notify author", "user_id", authorID, "error", err)
	}
}

func decisionKeyboard(postID int64) *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", callback.Encode(callback.Approve{PostID: postID})),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", callback.Encode(callback.Reject{PostID: postID})),
		),
	)
	return &markup
}
