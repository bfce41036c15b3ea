package commandimpl

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/events-telegram-bot/internal/callback"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/feed"
	"github.com/orgball2608/events-telegram-bot/internal/render"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/post"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
)

func (c *CommandImpl) sendPage(ctx context.Context, chatID, userID int64, kind feed.Kind, page int) error {
	w, err := c.Feed.Page(ctx, kind, userID, page)
	if err != nil {
		return err
	}
	_, err = c.Telegram.SendMessage(chatID, c.Render.Page(w), c.Render.PageKeyboard(w))
	return err
}

func (c *CommandImpl) handleFeedCallback(ctx context.Context, q *tgbotapi.CallbackQuery, cmd callback.Command) {
	log := c.Logger.With("user_id", q.From.ID)

	var (
		notice string
		err    error
	)
	switch cmd := cmd.(type) {
	case callback.Navigate:
		page := feed.Next(cmd.Page)
		if cmd.Direction == callback.Prev {
			page = feed.Prev(cmd.Page)
		}
		err = c.showPage(ctx, q, render.KindOf(cmd.Section), page)
	case callback.Back:
		err = c.showPage(ctx, q, render.KindOf(cmd.Section), cmd.Page)
	case callback.Open:
		notice, err = c.openPost(ctx, q, cmd)
	case callback.ToggleLike:
		notice, err = c.toggleLike(ctx, q, cmd)
	}

	if err != nil {
		log.Error("Failed to handle feed action", "data", q.Data, "error", err)
		notice = msgFailure
	}
	c.answer(q.ID, notice)
}

// showPage replaces the pressed message with a page. Photo messages cannot
// become text, so they are replaced by a new message.
func (c *CommandImpl) showPage(ctx context.Context, q *tgbotapi.CallbackQuery, kind feed.Kind, page int) error {
	w, err := c.Feed.Page(ctx, kind, q.From.ID, page)
	if err != nil {
		return err
	}
	return c.replace(q.Message, c.Render.Page(w), c.Render.PageKeyboard(w))
}

func (c *CommandImpl) openPost(ctx context.Context, q *tgbotapi.CallbackQuery, cmd callback.Open) (string, error) {
	p, err := c.visiblePost(ctx, cmd.PostID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return msgPostGone, c.showPage(ctx, q, render.KindOf(cmd.Section), cmd.Page)
		}
		return "", err
	}

	liked, err := c.Likes.IsLiked(ctx, q.From.ID, p.ID)
	if err != nil {
		return "", err
	}
	count, err := c.Likes.GetLikesCount(ctx, p.ID)
	if err != nil {
		return "", err
	}

	kb := c.Render.PostKeyboard(p, cmd.Section, cmd.Page, liked, count)
	chatID := q.Message.Chat.ID

	if photo := c.fetchImage(ctx, p); photo != nil {
		if _, err := c.Telegram.SendPhoto(chatID, photo, c.Render.PostCaption(p, count), kb); err != nil {
			return "", err
		}
		_ = c.Telegram.DeleteMessage(chatID, q.Message.MessageID)
		return "", nil
	}

	return "", c.replace(q.Message, c.Render.Post(p, count), kb)
}

func (c *CommandImpl) toggleLike(ctx context.Context, q *tgbotapi.CallbackQuery, cmd callback.ToggleLike) (string, error) {
	p, err := c.visiblePost(ctx, cmd.PostID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return msgPostGone, nil
		}
		return "", err
	}

	res, err := c.Likes.Toggle(ctx, q.From.ID, cmd.PostID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return msgPostGone, nil
		}
		return "", err
	}

	kb := c.Render.PostKeyboard(p, cmd.Section, cmd.Page, res.Action == domain.LikeAdded, res.LikesCount)
	if _, err := c.Telegram.EditKeyboard(q.Message.Chat.ID, q.Message.MessageID, kb); err != nil {
		return "", err
	}

	if res.Action == domain.LikeAdded {
		return "❤️ Added to liked events", nil
	}
	return "Removed from liked events", nil
}

// visiblePost loads a post users may open or like. Unapproved posts are
// reported as missing since only moderators may see them.
func (c *CommandImpl) visiblePost(ctx context.Context, id int64) (*domain.Post, error) {
	p, err := c.Posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Approved {
		return nil, post.ErrNotFound
	}
	return p, nil
}

func (c *CommandImpl) fetchImage(ctx context.Context, p *domain.Post) []byte {
	if p.ImageID == "" {
		return nil
	}
	data, ok, err := c.Blobs.Fetch(ctx, p.ImageID)
	if err != nil {
		c.Logger.Warn("Failed to load post image", "post_id", p.ID, "media", p.ImageID, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return data
}

func (c *CommandImpl) replace(msg *tgbotapi.Message, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	chatID := msg.Chat.ID
	if len(msg.Photo) == 0 {
		return c.edit(chatID, msg.MessageID, text, kb)
	}

	if _, err := c.Telegram.SendMessage(chatID, text, kb); err != nil {
		return fmt.Errorf("send replacement: %w", err)
	}
	_ = c.Telegram.DeleteMessage(chatID, msg.MessageID)
	return nil
}
