// Package likes toggles a user's like on a post.
package likes

import (
	"context"
	"fmt"

	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/like"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
)

type Service struct {
	likes  like.Repository
	logger logger.Logger
}

func New(likes like.Repository, logger logger.Logger) *Service {
	return &Service{likes: likes, logger: logger.WithComponent("Likes")}
}

// Toggle inserts the like if absent and deletes it otherwise. Two racing
// toggles from one user end in one of the two valid states because the store
// refuses a second row for the pair.
func (s *Service) Toggle(ctx context.Context, userID, postID int64) (domain.ToggleResult, error) {
	log := s.logger.With("user_id", userID, "post_id", postID)

	liked, err := s.likes.Exists(ctx, userID, postID)
	if err != nil {
		return domain.ToggleResult{}, fmt.Errorf("check like: %w", err)
	}

	action := domain.LikeAdded
	if liked {
		action = domain.LikeRemoved
		if _, err := s.likes.Delete(ctx, userID, postID); err != nil {
			return domain.ToggleResult{}, fmt.Errorf("remove like: %w", err)
		}
	} else {
		inserted, err := s.likes.Insert(ctx, userID, postID)
		if err != nil {
			return domain.ToggleResult{}, fmt.Errorf("add like: %w", err)
		}
		if !inserted {
			log.Debug("Like already added by a concurrent toggle")
		}
	}

	count, err := s.likes.CountByPost(ctx, postID)
	if err != nil {
		return domain.ToggleResult{}, fmt.Errorf("count likes: %w", err)
	}

	log.Info("Like toggled", "action", action, "likes", count)
	return domain.ToggleResult{Action: action, LikesCount: count}, nil
}

func (s *Service) IsLiked(ctx context.Context, userID, postID int64) (bool, error) {
	return s.likes.Exists(ctx, userID, postID)
}

func (s *Service) GetLikesCount(ctx context.Context, postID int64) (int, error) {
	return s.likes.CountByPost(ctx, postID)
}
