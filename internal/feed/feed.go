// Package feed pages through approved posts, a user's liked posts and the
// posts a user submitted.
package feed

import (
	"context"
	"fmt"

	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/post"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/preference"
	"github.com/orgball2608/events-telegram-bot/pkg/config"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
)

type Kind int

const (
	KindFeed Kind = iota
	KindLiked
	// KindMine lists the author's own posts, pending ones included.
	KindMine
)

func (k Kind) String() string {
	switch k {
	case KindLiked:
		return "liked"
	case KindMine:
		return "mine"
	}
	return "feed"
}

// Window is one page. Count and list are separate snapshots, so Posts may
// drift by an item from what Total implies.
type Window struct {
	Kind     Kind
	Posts    []*domain.Post
	Page     int
	PageSize int
	Total    int
}

// Pages is ceil(Total / PageSize).
func (w Window) Pages() int {
	if w.PageSize <= 0 {
		return 0
	}
	return (w.Total + w.PageSize - 1) / w.PageSize
}

// Rank is the 1-based position of the i-th post of the window in the whole list.
func (w Window) Rank(i int) int {
	return w.Page*w.PageSize + i + 1
}

// Empty holds both for a zero count and for a page past the end.
func (w Window) Empty() bool {
	return len(w.Posts) == 0
}

// OutOfRange tells a page past the end apart from a feed with nothing in it.
func (w Window) OutOfRange() bool {
	return w.Total > 0 && w.Page >= w.Pages()
}

func (w Window) HasPrev() bool {
	return w.Page > 0
}

func (w Window) HasNext() bool {
	return w.Page+1 < w.Pages()
}

// Prev clamps at the first page.
func Prev(page int) int {
	if page <= 0 {
		return 0
	}
	return page - 1
}

// Next does not clamp; a page past the end renders as empty.
func Next(page int) int {
	if page < 0 {
		return 0
	}
	return page + 1
}

type Service struct {
	posts    post.Repository
	prefs    preference.Repository
	pageSize int
	logger   logger.Logger
}

func New(posts post.Repository, prefs preference.Repository, pageSize int, logger logger.Logger) *Service {
	if pageSize <= 0 {
		pageSize = 5
	}
	return &Service{
		posts:    posts,
		prefs:    prefs,
		pageSize: pageSize,
		logger:   logger.WithComponent("Feed"),
	}
}

func NewFromConfig(posts post.Repository, prefs preference.Repository, cfg *config.Config, logger logger.Logger) *Service {
	return New(posts, prefs, cfg.Feed.PageSize, logger)
}

func (s *Service) PageSize() int {
	return s.pageSize
}

// Page loads page (zero-based) of the given kind for userID.
func (s *Service) Page(ctx context.Context, kind Kind, userID int64, page int) (Window, error) {
	if page < 0 {
		page = 0
	}
	w := Window{Kind: kind, Page: page, PageSize: s.pageSize}
	offset := page * s.pageSize

	var err error
	switch kind {
	case KindLiked:
		if w.Total, err = s.posts.CountLiked(ctx, userID); err != nil {
			return w, fmt.Errorf("count liked: %w", err)
		}
		if w.Total > offset {
			w.Posts, err = s.posts.ListLikedPage(ctx, userID, s.pageSize, offset)
		}
	case KindMine:
		if w.Total, err = s.posts.CountByAuthor(ctx, userID); err != nil {
			return w, fmt.Errorf("count authored: %w", err)
		}
		if w.Total > offset {
			w.Posts, err = s.posts.ListByAuthor(ctx, userID, s.pageSize, offset)
		}
	default:
		prefs, perr := s.prefs.Get(ctx, userID)
		if perr != nil {
			return w, fmt.Errorf("load preferences: %w", perr)
		}
		if w.Total, err = s.posts.CountFeed(ctx, prefs); err != nil {
			return w, fmt.Errorf("count feed: %w", err)
		}
		if w.Total > offset {
			w.Posts, err = s.posts.ListFeedPage(ctx, prefs, s.pageSize, offset)
		}
	}
	if err != nil {
		return w, fmt.Errorf("list %s page: %w", kind, err)
	}

	s.logger.Debug("Loaded page", "kind", kind.String(), "user_id", userID, "page", page, "total", w.Total, "items", len(w.Posts))
	return w, nil
}
