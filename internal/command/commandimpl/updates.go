package commandimpl

import (
	"context"
	"errors"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/events-telegram-bot/internal/wizard"
)

// HandleCommand reads updates until ctx is done. Every update runs in its
// own goroutine; per-user ordering is restored by the wizard's key lock.
func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			c.inflight.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				c.inflight.Wait()
				return errors.New("telegram updates channel closed")
			}

			c.inflight.Add(1)
			go func(u tgbotapi.Update) {
				defer c.inflight.Done()
				c.processUpdate(ctx, u)
			}(update)
		}
	}
}

func (c *CommandImpl) processUpdate(ctx context.Context, u tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	user := u.SentFrom()
	if user == nil {
		return
	}

	if !c.Limiter.Allow(user.ID) {
		c.Logger.Warn("Rate limit exceeded", "user_id", user.ID)
		if u.CallbackQuery != nil {
			_ = c.Telegram.AnswerCallback(u.CallbackQuery.ID, msgSlowDown)
		}
		return
	}

	switch {
	case u.CallbackQuery != nil:
		c.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil:
		c.handleMessage(ctx, u.Message)
	}
}

func (c *CommandImpl) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	log := c.Logger.With("user_id", msg.From.ID)

	if msg.IsCommand() {
		log.Info("Command received", "command", msg.Command())
		if err := c.processCommand(ctx, msg); err != nil {
			log.Error("Error processing command", "command", msg.Command(), "error", err)
			c.reply(msg.Chat.ID, msgFailure, nil)
		}
		return
	}

	if !c.Wizard.Active(ctx, msg.From.ID) {
		c.reply(msg.Chat.ID, msgUseCommands, nil)
		return
	}

	switch {
	case len(msg.Photo) > 0:
		c.wizardEvent(ctx, msg.From.ID, msg.Chat.ID, 0, wizard.Event{Kind: wizard.EventImage}, c.photoSource(msg.Photo))
	case msg.Document != nil && isImageDocument(msg.Document):
		c.wizardEvent(ctx, msg.From.ID, msg.Chat.ID, 0, wizard.Event{Kind: wizard.EventImage}, c.documentSource(msg.Document))
	default:
		c.wizardEvent(ctx, msg.From.ID, msg.Chat.ID, 0, wizard.Event{Kind: wizard.EventText, Text: msg.Text}, nil)
	}
}
