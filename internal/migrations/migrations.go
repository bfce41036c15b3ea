// Package migrations registers the goose Go migrations for the schema.
package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

// Up applies every registered migration. Migrations are Go files compiled into
// the binary, so dir only has to exist.
func Up(ctx context.Context, db *sql.DB, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dir)
}
