package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS posts (
    id                   TEXT PRIMARY KEY,
    created_at           TIMESTAMP NOT NULL,
    text                 TEXT NOT NULL,
    polarity             DOUBLE PRECISION NOT NULL,
    subjectivity         DOUBLE PRECISION NOT NULL,
    user_created_at      TIMESTAMP,
    user_location        TEXT,
    user_description     TEXT,
    user_followers_count INTEGER NOT NULL DEFAULT 0,
    longitude            DOUBLE PRECISION,
    latitude             DOUBLE PRECISION,
    retweet_count        INTEGER NOT NULL DEFAULT 0,
    favorite_count       INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at);
`

// PostStore is the Postgres repository for post rows. Rows are
// append-only: inserts happen exactly once per accepted event and nothing
// ever updates or deletes them.
type PostStore struct {
	pool *pgxpool.Pool
}

func NewPostStore(ctx context.Context) (*PostStore, error) {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure posts schema: %w", err)
	}

	slog.Info("[DB] Connected to PostgreSQL successfully")
	return &PostStore{pool: pool}, nil
}

func (s *PostStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
