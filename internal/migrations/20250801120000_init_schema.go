package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upInitSchema, downInitSchema)
}

func upInitSchema(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE users (
		id          BIGINT PRIMARY KEY,
		username    VARCHAR,
		first_name  VARCHAR,
		cities      TEXT[] NOT NULL DEFAULT '{}',
		created_at  TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);

	CREATE TABLE categories (
		id     BIGSERIAL PRIMARY KEY,
		name   VARCHAR NOT NULL UNIQUE,
		emoji  VARCHAR NOT NULL DEFAULT ''
	);

	CREATE TABLE user_categories (
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		category_id  BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, category_id)
	);

	CREATE TABLE posts (
		id           BIGSERIAL PRIMARY KEY,
		author_id    BIGINT NOT NULL,
		title        VARCHAR(100) NOT NULL,
		content      TEXT NOT NULL,
		cities       TEXT[] NOT NULL,
		event_at     TIMESTAMP WITHOUT TIME ZONE NOT NULL,
		address      VARCHAR(200),
		url          TEXT,
		image_id     VARCHAR,
		is_approved  BOOLEAN NOT NULL DEFAULT false,
		created_at   TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
	);
	CREATE INDEX posts_feed_idx ON posts (is_approved, event_at, id);
	CREATE INDEX posts_event_at_idx ON posts (event_at);

	CREATE TABLE post_categories (
		post_id      BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		category_id  BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		PRIMARY KEY (post_id, category_id)
	);

	CREATE TABLE likes (
		user_id     BIGINT NOT NULL,
		post_id     BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		created_at  TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, post_id)
	);
	CREATE INDEX likes_post_idx ON likes (post_id);
	`)
	return err
}

func downInitSchema(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE likes;
	DROP TABLE post_categories;
	DROP TABLE posts;
	DROP TABLE user_categories;
	DROP TABLE categories;
	DROP TABLE users;
	`)
	return err
}
