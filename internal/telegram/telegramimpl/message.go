package telegramimpl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/events-telegram-bot/internal/telegram"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/orgball2608/events-telegram-bot/pkg/retry"
)

// Telegram reports a no-op edit only through this description.
const notModified = "message is not modified"

func (tg *TelegramImpl) SendMessage(chatID int64, text string, kb telegram.Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if kb != nil {
		msg.ReplyMarkup = *kb
	}

	sent, err := tg.bot.Send(msg)
	if err != nil {
		tg.logger.Error("Error sending message", "chat_id", chatID, "error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	return sent.MessageID, nil
}

func (tg *TelegramImpl) SendPhoto(chatID int64, photo []byte, caption string, kb telegram.Keyboard) (int, error) {
	msg := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "image.jpg", Bytes: photo})
	msg.Caption = caption
	msg.ParseMode = tgbotapi.ModeHTML
	if kb != nil {
		msg.ReplyMarkup = *kb
	}

	sent, err := tg.bot.Send(msg)
	if err != nil {
		tg.logger.Error("Error sending photo", "chat_id", chatID, "error", err)
		return 0, fmt.Errorf("failed to send photo: %w", err)
	}

	return sent.MessageID, nil
}

func (tg *TelegramImpl) EditMessage(chatID int64, messageID int, text string, kb telegram.Keyboard) (telegram.EditResult, error) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	edit.ReplyMarkup = kb

	return tg.edit(edit, chatID, messageID)
}

func (tg *TelegramImpl) EditKeyboard(chatID int64, messageID int, kb telegram.Keyboard) (telegram.EditResult, error) {
	markup := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	if kb != nil {
		markup = *kb
	}

	return tg.edit(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, markup), chatID, messageID)
}

// edit goes through Request because Telegram answers edits of inline
// messages with a bare boolean that Send cannot decode.
func (tg *TelegramImpl) edit(c tgbotapi.Chattable, chatID int64, messageID int) (telegram.EditResult, error) {
	_, err := tg.bot.Request(c)
	return classifyEdit(err, tg.logger.With("chat_id", chatID, "message_id", messageID))
}

func classifyEdit(err error, log logger.Logger) (telegram.EditResult, error) {
	if err == nil {
		return telegram.EditApplied, nil
	}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, notModified) {
		log.Debug("Edit was a no-op")
		return telegram.EditUnchanged, nil
	}

	log.Error("Error editing message", "error", err)
	return telegram.EditFailed, fmt.Errorf("failed to edit message: %w", err)
}

func (tg *TelegramImpl) DeleteMessage(chatID int64, messageID int) error {
	if _, err := tg.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		tg.logger.Warn("Error deleting message", "chat_id", chatID, "message_id", messageID, "error", err)
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

func (tg *TelegramImpl) AnswerCallback(callbackID, text string) error {
	if _, err := tg.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

func (tg *TelegramImpl) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	url, err := tg.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file %s: %w", fileID, err)
	}

	var data []byte
	err = retry.Do(ctx, tg.logger, "download file", func(ctx context.Context) error {
		data, err = tg.fetch(ctx, url)
		return err
	}, retry.DefaultConfig())
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeTransport, "download file "+fileID)
	}

	return data, nil
}

func (tg *TelegramImpl) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}

	resp, err := tg.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer safeClose(resp.Body, tg.logger)

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("failed to download file: status %d", resp.StatusCode)
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, retry.Permanent(errors.New("downloaded file is empty"))
	}

	return data, nil
}

func safeClose(closer io.ReadCloser, logger logger.Logger) {
	if err := closer.Close(); err != nil {
		logger.Error("Error closing response body", "error", err)
	}
}
