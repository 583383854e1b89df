package store

import (
	"context"
	"testing"
	"time"

	"github.com/example/course-platform/internal/course"
)

func TestMemoryStore_CreateCourse_RejectsDuplicates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	c := course.Course{ID: "c1", PlaylistID: "PL123", CreatedAt: time.Now()}
	if err := s.CreateCourse(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.CreateCourse(ctx, c); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate for same id, got %v", err)
	}
	// Same playlist under a fresh id is still a duplicate.
	if err := s.CreateCourse(ctx, course.Course{ID: "c2", PlaylistID: "PL123"}); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate for same playlist, got %v", err)
	}
}

func TestMemoryStore_SaveProgress_StampsAndTouchesCourse(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	stamp := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return stamp }

	if err := s.CreateCourse(ctx, course.Course{ID: "c1", PlaylistID: "PL1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Caller-supplied timestamps are ignored.
	rec, err := s.SaveProgress(ctx, course.Progress{
		VideoID: "v1", CourseID: "c1", CurrentTime: 42, Duration: 100,
		LastWatched: stamp.Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !rec.LastWatched.Equal(stamp) {
		t.Fatalf("expected server stamp %v, got %v", stamp, rec.LastWatched)
	}

	c, _ := s.GetCourse(ctx, "c1")
	if c.LastWatched == nil || !c.LastWatched.Equal(stamp) {
		t.Fatalf("course last_watched not touched: %v", c.LastWatched)
	}

	// Monotonicity: a later write moves the course forward.
	later := stamp.Add(time.Minute)
	s.now = func() time.Time { return later }
	if _, err := s.SaveProgress(ctx, course.Progress{VideoID: "v1", CourseID: "c1", CurrentTime: 50, Duration: 100}); err != nil {
		t.Fatalf("save again: %v", err)
	}
	c, _ = s.GetCourse(ctx, "c1")
	if !c.LastWatched.After(stamp) && !c.LastWatched.Equal(later) {
		t.Fatalf("expected last_watched >= previous, got %v", c.LastWatched)
	}
}

func TestMemoryStore_SaveProgress_UnknownCourse(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.SaveProgress(context.Background(), course.Progress{VideoID: "v1", CourseID: "missing"})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_SaveProgress_FullReplace(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.CreateCourse(ctx, course.Course{ID: "c1", PlaylistID: "PL1"})

	if _, err := s.SaveProgress(ctx, course.Progress{VideoID: "v1", CourseID: "c1", CurrentTime: 90, Duration: 100, Completed: true}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.SaveProgress(ctx, course.Progress{VideoID: "v1", CourseID: "c1", CurrentTime: 10, Duration: 100}); err != nil {
		t.Fatalf("save: %v", err)
	}

	rec, err := s.GetProgress(ctx, "v1", "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Completed || rec.CurrentTime != 10 {
		t.Fatalf("expected full replace, got %+v", rec)
	}

	recs, _ := s.ListProgressByCourse(ctx, "c1")
	if len(recs) != 1 {
		t.Fatalf("expected exactly one record per (video, course), got %d", len(recs))
	}
}

func TestMemoryStore_DeleteCourse_CascadesProgress(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.CreateCourse(ctx, course.Course{ID: "c1", PlaylistID: "PL1"})
	_ = s.CreateCourse(ctx, course.Course{ID: "c2", PlaylistID: "PL2"})
	_, _ = s.SaveProgress(ctx, course.Progress{VideoID: "v1", CourseID: "c1"})
	_, _ = s.SaveProgress(ctx, course.Progress{VideoID: "v1", CourseID: "c2"})

	if err := s.DeleteCourse(ctx, "c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.GetProgress(ctx, "v1", "c1"); err != ErrNotFound {
		t.Fatalf("expected cascade delete, got %v", err)
	}
	// The same video in another course is untouched.
	if _, err := s.GetProgress(ctx, "v1", "c2"); err != nil {
		t.Fatalf("unrelated progress deleted: %v", err)
	}

	if err := s.DeleteCourse(ctx, "c1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestMemoryStore_ListCourses_NewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = s.CreateCourse(ctx, course.Course{ID: "old", PlaylistID: "PL1", CreatedAt: base})
	_ = s.CreateCourse(ctx, course.Course{ID: "new", PlaylistID: "PL2", CreatedAt: base.Add(time.Hour)})

	out, err := s.ListCourses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 || out[0].ID != "new" {
		t.Fatalf("expected newest first, got %+v", out)
	}
}

func TestStoreInterface(t *testing.T) {
	var _ Store = (*MemoryStore)(nil)
	var _ Store = (*PostgresStore)(nil)
}
