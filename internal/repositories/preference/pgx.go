package preference

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/repositories"

	sq "github.com/Masterminds/squirrel"
)

type Pgx struct {
	pg *pgxpool.Pool
}

func NewPgx(pg *pgxpool.Pool) *Pgx {
	return &Pgx{pg: pg}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Get(ctx context.Context, userID int64) (domain.Preferences, error) {
	prefs := domain.Preferences{UserID: userID}

	query, args, err := repositories.SqBuilder.
		Select("cities").
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return prefs, repositories.ErrBadQuery
	}

	err = p.pg.QueryRow(ctx, query, args...).Scan(&prefs.Cities)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return prefs, nil
		}
		return prefs, repositories.Storage("load cities", err)
	}

	query, args, err = repositories.SqBuilder.
		Select("category_id").
		From("user_categories").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("category_id ASC").
		ToSql()
	if err != nil {
		return prefs, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return prefs, repositories.Storage("load categories", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return prefs, repositories.Storage("load categories", err)
		}
		prefs.CategoryIDs = append(prefs.CategoryIDs, id)
	}

	if err := rows.Err(); err != nil {
		return prefs, repositories.Storage("load categories", err)
	}
	return prefs, nil
}
