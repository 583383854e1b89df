package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/course-platform/internal/course"
)

const pgUniqueViolation = "23505"

// PostgresStore is the production Postgres-backed implementation.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// ── Course writes ──────────────────────────────────────────────────────────

func (s *PostgresStore) CreateCourse(ctx context.Context, c course.Course) error {
	videosJSON, err := json.Marshal(c.Videos)
	if err != nil {
		return fmt.Errorf("encode videos: %w", err)
	}
	_, err = s.db.Exec(ctx, `
INSERT INTO courses (id, playlist_id, title, custom_title, description, thumbnail, channel_title, videos, created_at, last_watched)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULL)`,
		c.ID, c.PlaylistID, c.Title, c.CustomTitle, c.Description, c.Thumbnail, c.ChannelTitle,
		videosJSON, c.CreatedAt.UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateCustomTitle(ctx context.Context, courseID, customTitle string) error {
	ct, err := s.db.Exec(ctx, `UPDATE courses SET custom_title=$2 WHERE id=$1`, courseID, customTitle)
	if err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ReplaceVideos(ctx context.Context, courseID string, meta CourseMeta, videos []course.Video) error {
	videosJSON, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("encode videos: %w", err)
	}
	ct, err := s.db.Exec(ctx, `
UPDATE courses SET title=$2, description=$3, thumbnail=$4, channel_title=$5, videos=$6 WHERE id=$1`,
		courseID, meta.Title, meta.Description, meta.Thumbnail, meta.ChannelTitle, videosJSON)
	if err != nil {
		return fmt.Errorf("replace videos: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteCourse(ctx context.Context, courseID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM video_progress WHERE course_id=$1`, courseID); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	ct, err := tx.Exec(ctx, `DELETE FROM courses WHERE id=$1`, courseID)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// ── Course reads ───────────────────────────────────────────────────────────

const courseColumns = `id, playlist_id, title, custom_title, description, thumbnail, channel_title, videos, created_at, last_watched`

func (s *PostgresStore) GetCourse(ctx context.Context, courseID string) (course.Course, error) {
	row := s.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id=$1`, courseID)
	return scanCourse(row)
}

func (s *PostgresStore) GetCourseByPlaylistID(ctx context.Context, playlistID string) (course.Course, error) {
	row := s.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE playlist_id=$1`, playlistID)
	return scanCourse(row)
}

func (s *PostgresStore) ListCourses(ctx context.Context) ([]course.Course, error) {
	rows, err := s.db.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []course.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCourse(row pgx.Row) (course.Course, error) {
	var c course.Course
	var videosJSON []byte
	err := row.Scan(&c.ID, &c.PlaylistID, &c.Title, &c.CustomTitle, &c.Description,
		&c.Thumbnail, &c.ChannelTitle, &videosJSON, &c.CreatedAt, &c.LastWatched)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, ErrNotFound
		}
		return course.Course{}, fmt.Errorf("scan course: %w", err)
	}
	if err := json.Unmarshal(videosJSON, &c.Videos); err != nil {
		return course.Course{}, fmt.Errorf("decode videos: %w", err)
	}
	return c, nil
}

// ── Progress ───────────────────────────────────────────────────────────────

func (s *PostgresStore) SaveProgress(ctx context.Context, rec course.Progress) (course.Progress, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return course.Progress{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The write timestamp is assigned here, never by the caller, so the
	// most-recently-watched ordering stays monotonic.
	now := time.Now().UTC()
	rec.LastWatched = now

	_, err = tx.Exec(ctx, `
INSERT INTO video_progress (video_id, course_id, position_seconds, duration_seconds, completed, last_watched)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (video_id, course_id)
DO UPDATE SET
  position_seconds = EXCLUDED.position_seconds,
  duration_seconds = EXCLUDED.duration_seconds,
  completed        = EXCLUDED.completed,
  last_watched     = EXCLUDED.last_watched`,
		rec.VideoID, rec.CourseID, rec.CurrentTime, rec.Duration, rec.Completed, now)
	if err != nil {
		return course.Progress{}, fmt.Errorf("upsert progress: %w", err)
	}

	ct, err := tx.Exec(ctx, `UPDATE courses SET last_watched=$2 WHERE id=$1`, rec.CourseID, now)
	if err != nil {
		return course.Progress{}, fmt.Errorf("touch course: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return course.Progress{}, ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return course.Progress{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) GetProgress(ctx context.Context, videoID, courseID string) (course.Progress, error) {
	var rec course.Progress
	err := s.db.QueryRow(ctx, `
SELECT video_id, course_id, position_seconds, duration_seconds, completed, last_watched
FROM video_progress WHERE video_id=$1 AND course_id=$2`, videoID, courseID).
		Scan(&rec.VideoID, &rec.CourseID, &rec.CurrentTime, &rec.Duration, &rec.Completed, &rec.LastWatched)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Progress{}, ErrNotFound
		}
		return course.Progress{}, fmt.Errorf("get progress: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListProgressByCourse(ctx context.Context, courseID string) ([]course.Progress, error) {
	return s.listProgress(ctx, `course_id=$1`, courseID)
}

func (s *PostgresStore) ListProgressByVideo(ctx context.Context, videoID string) ([]course.Progress, error) {
	return s.listProgress(ctx, `video_id=$1`, videoID)
}

func (s *PostgresStore) listProgress(ctx context.Context, where string, arg any) ([]course.Progress, error) {
	rows, err := s.db.Query(ctx, `
SELECT video_id, course_id, position_seconds, duration_seconds, completed, last_watched
FROM video_progress WHERE `+where+` ORDER BY last_watched DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []course.Progress
	for rows.Next() {
		var rec course.Progress
		if err := rows.Scan(&rec.VideoID, &rec.CourseID, &rec.CurrentTime, &rec.Duration, &rec.Completed, &rec.LastWatched); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
