package post

import (
	"context"
	"errors"
	"time"

	"github.com/orgball2608/events-telegram-bot/internal/domain"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
)

var (
	ErrNotFound             = apperrors.Wrap(apperrors.ErrNotFound, "post")
	ErrIncompleteSubmission = errors.New("post submission is incomplete")
	ErrUnknownCategory      = errors.New("post references an unknown category")
	ErrCannotCreate         = errors.New("error create post")
)

// Repository is the post store. List operations are independent snapshots:
// a count followed by a list may disagree by the posts approved or deleted in
// between.
//
//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=mocks/mock.go
type Repository interface {
	// Create inserts the post with its categories, unapproved
	Create(ctx context.Context, post domain.NewPost) (*domain.Post, error)

	// GetByID returns the post with categories loaded
	GetByID(ctx context.Context, id int64) (*domain.Post, error)

	// SetApproved flips the approval flag
	SetApproved(ctx context.Context, id int64, approved bool) error

	// ListFeedPage returns approved posts matching the preferences, soonest event first
	ListFeedPage(ctx context.Context, prefs domain.Preferences, limit, offset int) ([]*domain.Post, error)
	CountFeed(ctx context.Context, prefs domain.Preferences) (int, error)

	// ListLikedPage returns approved posts liked by the user, most recently liked first
	ListLikedPage(ctx context.Context, userID int64, limit, offset int) ([]*domain.Post, error)
	CountLiked(ctx context.Context, userID int64) (int, error)

	// ListByAuthor returns every post of the author, approved or not, newest first
	ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]*domain.Post, error)
	CountByAuthor(ctx context.Context, authorID int64) (int, error)

	// ListExpiredInfo returns id and media of posts whose event is before cutoff
	ListExpiredInfo(ctx context.Context, cutoff time.Time) ([]domain.ExpiredInfo, error)

	// DeleteExpired removes posts whose event is before cutoff, likes cascade
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)

	// Delete removes a single post, reporting whether it existed
	Delete(ctx context.Context, id int64) (bool, error)
}
