package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Statements are split so a failure report points at one table.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id            TEXT PRIMARY KEY,
		playlist_id   TEXT NOT NULL UNIQUE,
		title         TEXT NOT NULL,
		custom_title  TEXT NOT NULL DEFAULT '',
		description   TEXT NOT NULL DEFAULT '',
		thumbnail     TEXT NOT NULL DEFAULT '',
		channel_title TEXT NOT NULL DEFAULT '',
		videos        JSONB NOT NULL DEFAULT '[]',
		created_at    TIMESTAMPTZ NOT NULL,
		last_watched  TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS courses_created_at_idx ON courses (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS video_progress (
		video_id         TEXT NOT NULL,
		course_id        TEXT NOT NULL REFERENCES courses (id),
		position_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		completed        BOOLEAN NOT NULL DEFAULT FALSE,
		last_watched     TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (video_id, course_id)
	)`,
	`CREATE INDEX IF NOT EXISTS video_progress_course_idx ON video_progress (course_id, last_watched DESC)`,
	`CREATE INDEX IF NOT EXISTS video_progress_video_idx ON video_progress (video_id, last_watched DESC)`,
}

// Migrate creates the schema when it does not exist yet. Idempotent, runs
// at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
