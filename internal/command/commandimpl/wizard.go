package commandimpl

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/events-telegram-bot/internal/callback"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/moderation"
	"github.com/orgball2608/events-telegram-bot/internal/telegram"
	"github.com/orgball2608/events-telegram-bot/internal/wizard"
	"github.com/orgball2608/events-telegram-bot/pkg/formatter"
	"github.com/samber/lo"
)

// wizardEvent feeds one event to the wizard. menuID is the message a button
// was pressed on, zero for typed input.
func (c *CommandImpl) wizardEvent(ctx context.Context, userID, chatID int64, menuID int, ev wizard.Event, img wizard.ImageSource) {
	c.Wizard.Handle(ctx, wizard.Input{UserID: userID, ChatID: chatID, Event: ev, Image: img}, func(ctx context.Context, res wizard.Result) int {
		return c.presentWizard(ctx, chatID, menuID, res)
	})
}

func (c *CommandImpl) presentWizard(ctx context.Context, chatID int64, menuID int, res wizard.Result) int {
	if res.NoSession {
		c.reply(chatID, msgNoSession, nil)
		return 0
	}

	switch res.Effect {
	case wizard.EffectPrompt:
		return c.prompt(ctx, chatID, menuID, res.Session)
	case wizard.EffectRefreshMenu:
		c.refreshMenu(ctx, chatID, menuID, res.Session)
	case wizard.EffectReprompt:
		text, kb := c.promptFor(ctx, res.Session)
		if isSelecting(res.Session.State) {
			kb = nil
		}
		c.reply(chatID, c.validationText(res.Err)+"\n\n"+text, kb)
	case wizard.EffectCancelled:
		c.clearMenu(chatID, menuID)
		c.reply(chatID, msgCancelled, nil)
	case wizard.EffectAbort:
		c.clearMenu(chatID, menuID)
		c.reply(chatID, msgAborted, nil)
	case wizard.EffectCommitted:
		c.clearMenu(chatID, menuID)
		c.reply(chatID, msgCommitted, nil)
	case wizard.EffectFailed:
		switch {
		case errors.Is(res.Err, moderation.ErrNotConfigured):
			c.reply(chatID, msgNotConfigured, nil)
		case res.Post != nil:
			c.reply(chatID, msgModerationLost, nil)
		default:
			c.reply(chatID, msgFailure, nil)
		}
	}
	return 0
}

// prompt asks for the input of the session's state. Selection menus reuse
// the pressed message when there is one and return its id.
func (c *CommandImpl) prompt(ctx context.Context, chatID int64, menuID int, s *domain.WizardSession) int {
	text, kb := c.promptFor(ctx, s)

	if isSelecting(s.State) {
		if menuID != 0 {
			if err := c.edit(chatID, menuID, text, kb); err == nil {
				return menuID
			}
		}
		return c.reply(chatID, text, kb)
	}

	c.clearMenu(chatID, menuID)
	c.reply(chatID, text, kb)
	return 0
}

func (c *CommandImpl) refreshMenu(ctx context.Context, chatID int64, menuID int, s *domain.WizardSession) {
	if menuID == 0 {
		menuID = s.MenuMessageID
	}
	if menuID == 0 {
		return
	}

	_, kb := c.promptFor(ctx, s)
	if _, err := c.Telegram.EditKeyboard(chatID, menuID, kb); err != nil {
		c.Logger.Warn("Failed to refresh selection menu", "chat_id", chatID, "error", err)
	}
}

func (c *CommandImpl) clearMenu(chatID int64, menuID int) {
	if menuID == 0 {
		return
	}
	if _, err := c.Telegram.EditKeyboard(chatID, menuID, nil); err != nil {
		c.Logger.Debug("Failed to clear menu", "chat_id", chatID, "error", err)
	}
}

func (c *CommandImpl) promptFor(ctx context.Context, s *domain.WizardSession) (string, *tgbotapi.InlineKeyboardMarkup) {
	switch s.State {
	case domain.StateSelectingCity:
		return promptCities, c.cityKeyboard(s)
	case domain.StateSelectingCategories:
		categories, err := c.Wizard.Categories(ctx)
		if err != nil {
			c.Logger.Error("Failed to load categories", "error", err)
		}
		return promptCategories, categoryKeyboard(categories, s)
	case domain.StateAwaitingTitle:
		return promptTitle, stepKeyboard(false)
	case domain.StateAwaitingContent:
		return promptContent, stepKeyboard(false)
	case domain.StateAwaitingURL:
		return promptURL, stepKeyboard(true)
	case domain.StateAwaitingEventAt:
		return promptEventAt, stepKeyboard(false)
	case domain.StateAwaitingAddress:
		return promptAddress, stepKeyboard(true)
	case domain.StateAwaitingImage:
		return promptImage, stepKeyboard(true)
	}
	return msgNoSession, nil
}

func (c *CommandImpl) validationText(err error) string {
	var verr *wizard.ValidationError
	if !errors.As(err, &verr) {
		return "⚠️ " + msgFailure
	}

	if !verr.Earliest.IsZero() {
		return fmt.Sprintf("⚠️ The event must start more than %s from now.\nCurrent time: %s\nSend a time after %s.",
			formatLead(verr.Earliest.Sub(verr.Now)),
			c.Calendar.Format(verr.Now),
			c.Calendar.Format(verr.Earliest),
		)
	}

	reason := verr.Reason
	if reason != "" {
		reason = strings.ToUpper(reason[:1]) + reason[1:]
	}
	return "⚠️ " + formatter.EscapeHTML(reason) + "."
}

func (c *CommandImpl) cityKeyboard(s *domain.WizardSession) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, city := range c.Wizard.Cities() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(checked(lo.Contains(s.Cities, city), city), callback.Encode(callback.ToggleCity{Index: i})),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌍 Select all", callback.Encode(callback.SelectAllCities{})),
			tgbotapi.NewInlineKeyboardButtonData("✔️ Done", callback.Encode(callback.ConfirmCities{})),
		),
		cancelRow(),
	)

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func categoryKeyboard(categories []domain.Category, s *domain.WizardSession) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, chunk := range lo.Chunk(categories, 2) {
		var row []tgbotapi.InlineKeyboardButton
		for _, cat := range chunk {
			label := strings.TrimSpace(cat.Emoji + " " + cat.Name)
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				checked(lo.Contains(s.CategoryIDs, cat.ID), label),
				callback.Encode(callback.ToggleCategory{CategoryID: cat.ID}),
			))
		}
		rows = append(rows, row)
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✔️ Done", callback.Encode(callback.ConfirmCategories{}))),
		cancelRow(),
	)

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func stepKeyboard(skippable bool) *tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	if skippable {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⏭ Skip", callback.Encode(callback.SkipStep{})))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", callback.Encode(callback.CancelWizard{})))

	markup := tgbotapi.NewInlineKeyboardMarkup(row)
	return &markup
}

func cancelRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", callback.Encode(callback.CancelWizard{})))
}

func checked(on bool, label string) string {
	if on {
		return "✅ " + label
	}
	return label
}

func isSelecting(state domain.WizardState) bool {
	return state == domain.StateSelectingCity || state == domain.StateSelectingCategories
}

func formatLead(d time.Duration) string {
	return fmt.Sprintf("%d minutes", int(d.Minutes()))
}

// edit treats an unchanged message as success.
func (c *CommandImpl) edit(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	res, err := c.Telegram.EditMessage(chatID, messageID, text, kb)
	if res == telegram.EditUnchanged {
		return nil
	}
	return err
}

func (c *CommandImpl) photoSource(photos []tgbotapi.PhotoSize) wizard.ImageSource {
	largest := lo.MaxBy(photos, func(a, b tgbotapi.PhotoSize) bool {
		return a.Width*a.Height > b.Width*b.Height
	})
	return func(ctx context.Context) ([]byte, string, error) {
		data, err := c.Telegram.DownloadFile(ctx, largest.FileID)
		return data, "jpg", err
	}
}

func (c *CommandImpl) documentSource(doc *tgbotapi.Document) wizard.ImageSource {
	ext := strings.TrimPrefix(path.Ext(doc.FileName), ".")
	if ext == "" {
		ext = strings.TrimPrefix(doc.MimeType, "image/")
	}
	return func(ctx context.Context) ([]byte, string, error) {
		data, err := c.Telegram.DownloadFile(ctx, doc.FileID)
		return data, ext, err
	}
}

func isImageDocument(doc *tgbotapi.Document) bool {
	return strings.HasPrefix(doc.MimeType, "image/")
}
