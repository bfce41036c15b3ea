// Package session persists wizard sessions between independently dispatched
// updates.
package session

import (
	"context"
	"errors"

	"github.com/orgball2608/events-telegram-bot/internal/domain"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
)

var (
	ErrNotFound = apperrors.Wrap(apperrors.ErrNotFound, "wizard session")
	ErrCorrupt  = errors.New("wizard session is corrupt")
)

// Store keeps at most one session per user.
//
//go:generate go run go.uber.org/mock/mockgen -source=session.go -destination=mocks/mock.go
type Store interface {
	Get(ctx context.Context, userID int64) (*domain.WizardSession, error)

	// Save replaces the session and restarts its idle timeout
	Save(ctx context.Context, s *domain.WizardSession) error

	Delete(ctx context.Context, userID int64) error
}
