package commandimpl

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/events-telegram-bot/internal/callback"
	"github.com/orgball2608/events-telegram-bot/internal/wizard"
)

func (c *CommandImpl) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	log := c.Logger.With("user_id", q.From.ID)

	if q.Message == nil {
		c.answer(q.ID, "")
		return
	}
	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID

	cmd, err := callback.Decode(q.Data)
	if err != nil {
		log.Warn("Failed to decode callback data", "data", q.Data, "error", err)
		c.answer(q.ID, msgUnknownButton)
		return
	}

	switch cmd := cmd.(type) {
	case callback.Navigate, callback.Open, callback.Back, callback.ToggleLike:
		c.handleFeedCallback(ctx, q, cmd)
		return
	case callback.Approve:
		c.handleReview(ctx, q, cmd.PostID, true)
		return
	case callback.Reject:
		c.handleReview(ctx, q, cmd.PostID, false)
		return
	}

	ev, ok := c.wizardEventFor(cmd)
	c.answer(q.ID, "")
	if !ok {
		return
	}
	c.wizardEvent(ctx, q.From.ID, chatID, messageID, ev, nil)
}

func (c *CommandImpl) wizardEventFor(cmd callback.Command) (wizard.Event, bool) {
	switch cmd := cmd.(type) {
	case callback.ToggleCity:
		cities := c.Wizard.Cities()
		if cmd.Index < 0 || cmd.Index >= len(cities) {
			return wizard.Event{}, false
		}
		return wizard.Event{Kind: wizard.EventToggleCity, City: cities[cmd.Index]}, true
	case callback.SelectAllCities:
		return wizard.Event{Kind: wizard.EventSelectAllCities}, true
	case callback.ConfirmCities:
		return wizard.Event{Kind: wizard.EventConfirmCities}, true
	case callback.ToggleCategory:
		return wizard.Event{Kind: wizard.EventToggleCategory, CategoryID: cmd.CategoryID}, true
	case callback.ConfirmCategories:
		return wizard.Event{Kind: wizard.EventConfirmCategories}, true
	case callback.SkipStep:
		return wizard.Event{Kind: wizard.EventSkip}, true
	case callback.CancelWizard:
		return wizard.Event{Kind: wizard.EventCancel}, true
	}
	return wizard.Event{}, false
}

func (c *CommandImpl) handleReview(ctx context.Context, q *tgbotapi.CallbackQuery, postID int64, approve bool) {
	if !c.Reviewer.IsModerationChat(q.Message.Chat.ID) {
		c.answer(q.ID, msgNotAllowed)
		return
	}

	var err error
	if approve {
		err = c.Reviewer.Approve(ctx, postID, q.Message.MessageID)
	} else {
		err = c.Reviewer.Reject(ctx, postID, q.Message.MessageID)
	}
	if err != nil {
		c.Logger.Error("Failed to apply moderation decision", "post_id", postID, "approve", approve, "user_id", q.From.ID, "error", err)
		c.answer(q.ID, msgFailure)
		return
	}

	c.answer(q.ID, "Done")
}

func (c *CommandImpl) answer(callbackID, text string) {
	if err := c.Telegram.AnswerCallback(callbackID, text); err != nil {
		c.Logger.Debug("Failed to answer callback", "error", err)
	}
}
