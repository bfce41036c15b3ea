package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// EditResult tells callers whether an edit changed anything.
type EditResult int

const (
	EditFailed EditResult = iota
	EditApplied
	// EditUnchanged means the new content equals the old one. It is not an error.
	EditUnchanged
)

func (r EditResult) String() string {
	switch r {
	case EditApplied:
		return "applied"
	case EditUnchanged:
		return "unchanged"
	default:
		return "failed"
	}
}

// Keyboard is optional everywhere; nil sends no markup.
type Keyboard = *tgbotapi.InlineKeyboardMarkup

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go
type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	// SendMessage sends HTML text and returns the new message id
	SendMessage(chatID int64, text string, kb Keyboard) (int, error)

	// SendPhoto sends an image with an HTML caption
	SendPhoto(chatID int64, photo []byte, caption string, kb Keyboard) (int, error)

	// EditMessage replaces text and keyboard of a text message
	EditMessage(chatID int64, messageID int, text string, kb Keyboard) (EditResult, error)

	// EditKeyboard replaces only the inline keyboard
	EditKeyboard(chatID int64, messageID int, kb Keyboard) (EditResult, error)

	DeleteMessage(chatID int64, messageID int) error
	AnswerCallback(callbackID, text string) error

	// DownloadFile fetches an uploaded file by its telegram file id
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}
