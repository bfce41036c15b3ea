package preference

import (
	"context"

	"github.com/orgball2608/events-telegram-bot/internal/domain"
)

// Repository reads the feed filters kept by profile management.
//
//go:generate go run go.uber.org/mock/mockgen -source=preference.go -destination=mocks/mock.go
type Repository interface {
	// Get returns the user's filters; an unknown user has no filters
	Get(ctx context.Context, userID int64) (domain.Preferences, error)
}
