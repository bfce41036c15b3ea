// Package repotest connects repository integration tests to a real postgres.
package repotest

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/events-telegram-bot/internal/migrations"

	_ "github.com/lib/pq"
)

const EnvDatabaseURL = "TEST_DATABASE_URL"

// Pool returns a migrated, truncated pool. The test is skipped when
// TEST_DATABASE_URL is not set.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s is not set, skipping postgres integration test", EnvDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := migrations.Up(ctx, db, "."); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE likes, post_categories, posts, user_categories, users RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return pool
}

// CategoryID looks up a seeded category by name.
func CategoryID(t *testing.T, pool *pgxpool.Pool, name string) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(), "SELECT id FROM categories WHERE name = $1", name).Scan(&id)
	if err != nil {
		t.Fatalf("category %q: %v", name, err)
	}
	return id
}
