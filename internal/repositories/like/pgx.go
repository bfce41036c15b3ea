package like

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/events-telegram-bot/internal/repositories"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("LikeRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Select("1").
		From("likes").
		Where(sq.Eq{"user_id": userID, "post_id": postID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	var one int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, repositories.Storage("check like", err)
	}

	return true, nil
}

func (r *PgxRepository) Insert(ctx context.Context, userID, postID int64) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Insert("likes").
		Columns("user_id", "post_id").
		Values(userID, postID).
		Suffix("ON CONFLICT (user_id, post_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == repositories.PgForeignKeyViolation {
			return false, ErrPostNotFound
		}
		return false, repositories.Storage("insert like", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *PgxRepository) Delete(ctx context.Context, userID, postID int64) (bool, error) {
	query, args, err := repositories.SqBuilder.
		Delete("likes").
		Where(sq.Eq{"user_id": userID, "post_id": postID}).
		ToSql()
	if err != nil {
		return false, repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, repositories.Storage("delete like", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *PgxRepository) CountByPost(ctx context.Context, postID int64) (int, error) {
	query, args, err := repositories.SqBuilder.
		Select("COUNT(*)").
		From("likes").
		Where(sq.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, repositories.Storage("count likes", err)
	}
	return n, nil
}
