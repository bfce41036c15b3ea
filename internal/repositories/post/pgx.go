package post

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/events-telegram-bot/internal/calendar"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/repositories"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

var postColumns = []string{
	"p.id", "p.author_id", "p.title", "p.content", "p.cities", "p.event_at",
	"p.address", "p.url", "p.image_id", "p.is_approved", "p.created_at",
}

type Pgx struct {
	pg       *pgxpool.Pool
	calendar *calendar.Calendar
	logger   logger.Logger
}

func NewPgx(pg *pgxpool.Pool, cal *calendar.Calendar, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:       pg,
		calendar: cal,
		logger:   logger.WithComponent("PostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Create(ctx context.Context, post domain.NewPost) (*domain.Post, error) {
	if !post.Complete() {
		return nil, ErrIncompleteSubmission
	}

	created := &domain.Post{
		AuthorID:    post.AuthorID,
		Title:       post.Title,
		Content:     post.Content,
		CategoryIDs: post.CategoryIDs,
		Cities:      post.Cities,
		EventAt:     post.EventAt,
		Address:     post.Address,
		URL:         post.URL,
		ImageID:     post.ImageID,
	}

	err := pgx.BeginFunc(ctx, p.pg, func(tx pgx.Tx) error {
		query, args, err := insertPostQuery(post).ToSql()
		if err != nil {
			return repositories.ErrBadQuery
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&created.ID, &created.CreatedAt); err != nil {
			return err
		}

		query, args, err = insertCategoriesQuery(created.ID, post.CategoryIDs).ToSql()
		if err != nil {
			return repositories.ErrBadQuery
		}
		_, err = tx.Exec(ctx, query, args...)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == repositories.PgForeignKeyViolation {
			return nil, ErrUnknownCategory
		}
		if errors.Is(err, repositories.ErrBadQuery) {
			return nil, err
		}
		return nil, repositories.Storage("create post", errors.Join(err, ErrCannotCreate))
	}

	p.logger.Info("Post created", "post_id", created.ID, "user_id", post.AuthorID)
	return created, nil
}

func (p *Pgx) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Select(postColumns...).
		From("posts p").
		Where(sq.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	post, err := p.scanPost(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, repositories.Storage("get post", err)
	}

	if err := p.loadCategories(ctx, []*domain.Post{post}); err != nil {
		return nil, repositories.Storage("get post categories", err)
	}
	return post, nil
}

func (p *Pgx) SetApproved(ctx context.Context, id int64, approved bool) error {
	query, args, err := repositories.SqBuilder.
		Update("posts").
		Set("is_approved", approved).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return repositories.Storage("approve post", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Pgx) ListFeedPage(ctx context.Context, prefs domain.Preferences, limit, offset int) ([]*domain.Post, error) {
	query, args, err := feedPageQuery(prefs, limit, offset).ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}
	return p.queryPosts(ctx, "list feed", query, args...)
}

func (p *Pgx) CountFeed(ctx context.Context, prefs domain.Preferences) (int, error) {
	query, args, err := feedCountQuery(prefs).ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}
	return p.count(ctx, "count feed", query, args...)
}

func (p *Pgx) ListLikedPage(ctx context.Context, userID int64, limit, offset int) ([]*domain.Post, error) {
	query, args, err := likedPageQuery(userID, limit, offset).ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}
	return p.queryPosts(ctx, "list liked", query, args...)
}

func (p *Pgx) CountLiked(ctx context.Context, userID int64) (int, error) {
	query, args, err := likedFilter(repositories.SqBuilder.Select("COUNT(*)"), userID).ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}
	return p.count(ctx, "count liked", query, args...)
}

func (p *Pgx) ListByAuthor(ctx context.Context, authorID int64, limit, offset int) ([]*domain.Post, error) {
	query, args, err := authorPageQuery(authorID, limit, offset).ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}
	return p.queryPosts(ctx, "list authored", query, args...)
}

func (p *Pgx) CountByAuthor(ctx context.Context, authorID int64) (int, error) {
	query, args, err := repositories.SqBuilder.
		Select("COUNT(*)").
		From("posts p").
		Where(sq.Eq{"p.author_id": authorID}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}
	return p.count(ctx, "count authored", query, args...)
}

func (p *Pgx) ListExpiredInfo(ctx context.Context, cutoff time.Time) ([]domain.ExpiredInfo, error) {
	query, args, err := repositories.SqBuilder.
		Select("id", "image_id").
		From("posts").
		Where(sq.Lt{"event_at": cutoff}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, repositories.Storage("list expired", err)
	}
	defer rows.Close()

	var expired []domain.ExpiredInfo
	for rows.Next() {
		var (
			info    domain.ExpiredInfo
			imageID *string
		)
		if err := rows.Scan(&info.ID, &imageID); err != nil {
			return nil, repositories.Storage("list expired", err)
		}
		info.ImageID = deref(imageID)
		expired = append(expired, info)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.Storage("list expired", err)
	}

	return expired, nil
}

func (p *Pgx) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Delete("posts").
		Where(sq.Lt{"event_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, repositories.Storage("delete expired", err)
	}

	return result.RowsAffected(), nil
}

func (p *Pgx) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Delete("posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	result, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return false, repositories.Storage("delete post", err)
	}

	return result.RowsAffected() > 0, nil
}

func (p *Pgx) queryPosts(ctx context.Context, op, query string, args ...interface{}) ([]*domain.Post, error) {
	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, repositories.Storage(op, err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := p.scanPost(rows)
		if err != nil {
			return nil, repositories.Storage(op, err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.Storage(op, err)
	}

	if err := p.loadCategories(ctx, posts); err != nil {
		return nil, repositories.Storage(op, err)
	}
	return posts, nil
}

func (p *Pgx) count(ctx context.Context, op, query string, args ...interface{}) (int, error) {
	var n int
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, repositories.Storage(op, err)
	}
	return n, nil
}

// loadCategories fills Categories and CategoryIDs for posts with one query.
func (p *Pgx) loadCategories(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Post, len(posts))
	ids := make([]int64, 0, len(posts))
	for _, post := range posts {
		byID[post.ID] = post
		ids = append(ids, post.ID)
	}

	query, args, err := repositories.SqBuilder.
		Select("pc.post_id", "c.id", "c.name", "c.emoji").
		From("post_categories pc").
		Join("categories c ON c.id = pc.category_id").
		Where(sq.Eq{"pc.post_id": ids}).
		OrderBy("c.name ASC").
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID int64
			c      domain.Category
		)
		if err := rows.Scan(&postID, &c.ID, &c.Name, &c.Emoji); err != nil {
			return err
		}
		if post, ok := byID[postID]; ok {
			post.Categories = append(post.Categories, c)
			post.CategoryIDs = append(post.CategoryIDs, c.ID)
		}
	}

	return rows.Err()
}

func (p *Pgx) scanPost(row pgx.Row) (*domain.Post, error) {
	var (
		post                  domain.Post
		address, url, imageID *string
	)
	err := row.Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Content, &post.Cities, &post.EventAt,
		&address, &url, &imageID, &post.Approved, &post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.EventAt = p.calendar.Civil(post.EventAt)
	post.Address = deref(address)
	post.URL = deref(url)
	post.ImageID = deref(imageID)
	return &post, nil
}

func insertPostQuery(post domain.NewPost) sq.InsertBuilder {
	return repositories.SqBuilder.
		Insert("posts").
		Columns("author_id", "title", "content", "cities", "event_at", "address", "url", "image_id").
		Values(
			post.AuthorID,
			post.Title,
			post.Content,
			post.Cities,
			post.EventAt,
			nullable(post.Address),
			nullable(post.URL),
			nullable(post.ImageID),
		).
		Suffix("RETURNING id, created_at")
}

func insertCategoriesQuery(postID int64, categoryIDs []int64) sq.InsertBuilder {
	q := repositories.SqBuilder.
		Insert("post_categories").
		Columns("post_id", "category_id")
	for _, id := range categoryIDs {
		q = q.Values(postID, id)
	}
	return q.Suffix("ON CONFLICT DO NOTHING")
}

// feedFilter restricts q to approved posts matching the preferences. An empty
// preference set does not filter that dimension.
func feedFilter(q sq.SelectBuilder, prefs domain.Preferences) sq.SelectBuilder {
	q = q.Where(sq.Eq{"p.is_approved": true})
	if len(prefs.Cities) > 0 {
		q = q.Where("p.cities && ?", prefs.Cities)
	}
	if len(prefs.CategoryIDs) > 0 {
		q = q.Where(
			"EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = ANY(?))",
			prefs.CategoryIDs,
		)
	}
	return q
}

func feedPageQuery(prefs domain.Preferences, limit, offset int) sq.SelectBuilder {
	return feedFilter(repositories.SqBuilder.Select(postColumns...).From("posts p"), prefs).
		OrderBy("p.event_at ASC", "p.id ASC").
		Limit(uint64(max(limit, 0))).
		Offset(uint64(max(offset, 0)))
}

func feedCountQuery(prefs domain.Preferences) sq.SelectBuilder {
	return feedFilter(repositories.SqBuilder.Select("COUNT(*)").From("posts p"), prefs)
}

// likedFilter joins the user's likes to posts. A post that is no longer
// approved drops out of the list even when a like row survives.
func likedFilter(q sq.SelectBuilder, userID int64) sq.SelectBuilder {
	return q.
		From("likes l").
		Join("posts p ON p.id = l.post_id").
		Where(sq.Eq{"l.user_id": userID, "p.is_approved": true})
}

func likedPageQuery(userID int64, limit, offset int) sq.SelectBuilder {
	return likedFilter(repositories.SqBuilder.Select(postColumns...), userID).
		OrderBy("l.created_at DESC", "p.id DESC").
		Limit(uint64(max(limit, 0))).
		Offset(uint64(max(offset, 0)))
}

// authorPageQuery lists everything the author submitted, approved or not,
// newest submission first.
func authorPageQuery(authorID int64, limit, offset int) sq.SelectBuilder {
	return repositories.SqBuilder.
		Select(postColumns...).
		From("posts p").
		Where(sq.Eq{"p.author_id": authorID}).
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(max(limit, 0))).
		Offset(uint64(max(offset, 0)))
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
