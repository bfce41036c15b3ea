package commandimpl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/events-telegram-bot/internal/feed"
	"github.com/orgball2608/events-telegram-bot/internal/wizard"
)

func (c *CommandImpl) processCommand(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	switch msg.Command() {
	case "start", "help":
		_, err := c.Telegram.SendMessage(chatID, helpMessage, nil)
		return err
	case "create_post":
		c.wizardEvent(ctx, userID, chatID, 0, wizard.Event{Kind: wizard.EventStart}, nil)
		return nil
	case "cancel":
		c.wizardEvent(ctx, userID, chatID, 0, wizard.Event{Kind: wizard.EventCancel}, nil)
		return nil
	case "skip":
		c.wizardEvent(ctx, userID, chatID, 0, wizard.Event{Kind: wizard.EventSkip}, nil)
		return nil
	case "feed":
		return c.sendPage(ctx, chatID, userID, feed.KindFeed, 0)
	case "liked_posts":
		return c.sendPage(ctx, chatID, userID, feed.KindLiked, 0)
	case "my_posts":
		return c.sendPage(ctx, chatID, userID, feed.KindMine, 0)
	case "delete_post":
		return c.handleDeletePost(ctx, msg)
	default:
		_, err := c.Telegram.SendMessage(chatID, msgUnknownCommand, nil)
		return err
	}
}

func (c *CommandImpl) handleDeletePost(ctx context.Context, msg *tgbotapi.Message) error {
	chatID := msg.Chat.ID
	if !c.Config.IsAdmin(msg.From.ID) {
		_, err := c.Telegram.SendMessage(chatID, msgNotAllowed, nil)
		return err
	}

	id, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil || id <= 0 {
		_, err := c.Telegram.SendMessage(chatID, "Please provide a post id: /delete_post <id>", nil)
		return err
	}

	found, err := c.Purger.Purge(ctx, id)
	if err != nil {
		return fmt.Errorf("purge post %d: %w", id, err)
	}

	text := fmt.Sprintf("🗑 Post #%d deleted.", id)
	if !found {
		text = fmt.Sprintf("Post #%d not found.", id)
	}
	c.Logger.Info("Admin post deletion", "user_id", msg.From.ID, "post_id", id, "found", found)
	_, err = c.Telegram.SendMessage(chatID, text, nil)
	return err
}

// reply sends a message and only logs failures; the user has nothing to retry.
func (c *CommandImpl) reply(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) int {
	id, err := c.Telegram.SendMessage(chatID, text, kb)
	if err != nil {
		c.Logger.Error("Failed to send reply", "chat_id", chatID, "error", err)
	}
	return id
}
