package store

import (
	"context"
	"errors"

	"github.com/example/course-platform/internal/course"
)

var (
	// ErrNotFound is returned when a course or progress record is absent.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when inserting a course whose id or
	// playlist id already exists. Creation never overwrites.
	ErrDuplicate = errors.New("already exists")
)

// Store defines all persistence operations for courses and watch progress.
type Store interface {
	// Course writes
	CreateCourse(ctx context.Context, c course.Course) error
	UpdateCustomTitle(ctx context.Context, courseID, customTitle string) error
	// ReplaceVideos refreshes playlist-sourced metadata in place, leaving
	// custom_title, created_at and last_watched untouched.
	ReplaceVideos(ctx context.Context, courseID string, meta CourseMeta, videos []course.Video) error
	// DeleteCourse removes the course and all of its progress records.
	DeleteCourse(ctx context.Context, courseID string) error

	// Course reads
	GetCourse(ctx context.Context, courseID string) (course.Course, error)
	GetCourseByPlaylistID(ctx context.Context, playlistID string) (course.Course, error)
	ListCourses(ctx context.Context) ([]course.Course, error)

	// Progress
	// SaveProgress upserts the record (full replace keyed by
	// (video_id, course_id)) and stamps both the record and the parent
	// course with the same write timestamp, atomically. A failed save
	// leaves the course row untouched.
	SaveProgress(ctx context.Context, rec course.Progress) (course.Progress, error)
	GetProgress(ctx context.Context, videoID, courseID string) (course.Progress, error)
	ListProgressByCourse(ctx context.Context, courseID string) ([]course.Progress, error)
	ListProgressByVideo(ctx context.Context, videoID string) ([]course.Progress, error)
}

// CourseMeta carries the refreshable playlist-level fields.
type CourseMeta struct {
	Title        string
	Description  string
	Thumbnail    string
	ChannelTitle string
}
