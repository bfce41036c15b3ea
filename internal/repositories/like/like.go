package like

import (
	"context"

	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
)

var ErrPostNotFound = apperrors.Wrap(apperrors.ErrNotFound, "liked post")

// Repository owns like rows. The (user_id, post_id) primary key is the only
// guard against double likes.
//
//go:generate go run go.uber.org/mock/mockgen -source=like.go -destination=mocks/mock.go
type Repository interface {
	Exists(ctx context.Context, userID, postID int64) (bool, error)

	// Insert adds the like unless it already exists and reports whether a row was written
	Insert(ctx context.Context, userID, postID int64) (bool, error)

	// Delete removes the like and reports whether a row was removed
	Delete(ctx context.Context, userID, postID int64) (bool, error)

	CountByPost(ctx context.Context, postID int64) (int, error)
}
