package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/course-platform/internal/course"
)

type progressKey struct {
	videoID  string
	courseID string
}

// MemoryStore is an in-memory Store used by tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	courses  map[string]course.Course
	progress map[progressKey]course.Progress

	// now is swappable so tests can control write timestamps.
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		courses:  make(map[string]course.Course),
		progress: make(map[progressKey]course.Progress),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) CreateCourse(_ context.Context, c course.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[c.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range s.courses {
		if existing.PlaylistID == c.PlaylistID {
			return ErrDuplicate
		}
	}
	s.courses[c.ID] = c
	return nil
}

func (s *MemoryStore) UpdateCustomTitle(_ context.Context, courseID, customTitle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[courseID]
	if !ok {
		return ErrNotFound
	}
	c.CustomTitle = customTitle
	s.courses[courseID] = c
	return nil
}

func (s *MemoryStore) ReplaceVideos(_ context.Context, courseID string, meta CourseMeta, videos []course.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[courseID]
	if !ok {
		return ErrNotFound
	}
	c.Title = meta.Title
	c.Description = meta.Description
	c.Thumbnail = meta.Thumbnail
	c.ChannelTitle = meta.ChannelTitle
	c.Videos = videos
	s.courses[courseID] = c
	return nil
}

func (s *MemoryStore) DeleteCourse(_ context.Context, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[courseID]; !ok {
		return ErrNotFound
	}
	delete(s.courses, courseID)
	for k := range s.progress {
		if k.courseID == courseID {
			delete(s.progress, k)
		}
	}
	return nil
}

func (s *MemoryStore) GetCourse(_ context.Context, courseID string) (course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[courseID]
	if !ok {
		return course.Course{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) GetCourseByPlaylistID(_ context.Context, playlistID string) (course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.courses {
		if c.PlaylistID == playlistID {
			return c, nil
		}
	}
	return course.Course{}, ErrNotFound
}

func (s *MemoryStore) ListCourses(_ context.Context) ([]course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]course.Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) SaveProgress(_ context.Context, rec course.Progress) (course.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[rec.CourseID]
	if !ok {
		return course.Progress{}, ErrNotFound
	}

	now := s.now()
	rec.LastWatched = now
	s.progress[progressKey{rec.VideoID, rec.CourseID}] = rec

	c.LastWatched = &now
	s.courses[rec.CourseID] = c
	return rec, nil
}

func (s *MemoryStore) GetProgress(_ context.Context, videoID, courseID string) (course.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.progress[progressKey{videoID, courseID}]
	if !ok {
		return course.Progress{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) ListProgressByCourse(_ context.Context, courseID string) ([]course.Progress, error) {
	return s.listProgress(func(k progressKey) bool { return k.courseID == courseID })
}

func (s *MemoryStore) ListProgressByVideo(_ context.Context, videoID string) ([]course.Progress, error) {
	return s.listProgress(func(k progressKey) bool { return k.videoID == videoID })
}

func (s *MemoryStore) listProgress(match func(progressKey) bool) ([]course.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []course.Progress
	for k, rec := range s.progress {
		if match(k) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LastWatched.Equal(out[j].LastWatched) {
			return out[i].LastWatched.After(out[j].LastWatched)
		}
		return out[i].VideoID > out[j].VideoID
	})
	return out, nil
}
