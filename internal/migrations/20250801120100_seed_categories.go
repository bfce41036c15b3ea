package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upSeedCategories, downSeedCategories)
}

func upSeedCategories(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	INSERT INTO categories (name, emoji) VALUES
		('music', '🎵'),
		('theatre', '🎭'),
		('exhibitions', '🖼'),
		('sports', '⚽'),
		('education', '📚'),
		('parties', '🎉'),
		('food', '🍽')
	ON CONFLICT (name) DO NOTHING;
	`)
	return err
}

func downSeedCategories(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id NOT IN (SELECT category_id FROM post_categories)`)
	return err
}
