// Package moderation hands committed posts to human reviewers and applies
// their decisions.
package moderation

import (
	"context"
	"errors"

	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/screening"
)

var ErrNotConfigured = errors.New("moderation chat is not configured")

// Handoff renders a pending post for review. The decision arrives later and
// outside of the submitting flow.
//
//go:generate go run go.uber.org/mock/mockgen -source=moderation.go -destination=mocks/mock.go
type Handoff interface {
	// Ready returns ErrNotConfigured when posts cannot be reviewed at all
	Ready() error

	Submit(ctx context.Context, post *domain.Post, verdict screening.Verdict) error
}

// Purger deletes a single post and its media.
type Purger interface {
	Purge(ctx context.Context, postID int64) (bool, error)
}
