package category

import (
	"context"

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

func (p *Pgx) List(ctx context.Context) ([]domain.Category, error) {
	return p.query(ctx, repositories.SqBuilder.
		Select("id", "name", "emoji").
		From("categories").
		OrderBy("name ASC"))
}

func (p *Pgx) GetByIDs(ctx context.Context, ids []int64) ([]domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return p.query(ctx, repositories.SqBuilder.
		Select("id", "name", "emoji").
		From("categories").
		Where(sq.Eq{"id": ids}).
		OrderBy("name ASC"))
}

func (p *Pgx) query(ctx context.Context, b sq.SelectBuilder) ([]domain.Category, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, repositories.Storage("list categories", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Emoji); err != nil {
			return nil, repositories.Storage("list categories", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.Storage("list categories", err)
	}

	return categories, nil
}
