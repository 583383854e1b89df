package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/course-platform/internal/course"
	"github.com/example/course-platform/internal/store"
)

func TestUpsertProgress_AutoCompletes(t *testing.T) {
	st := store.NewMemoryStore()
	c := seedCourse(t, st)
	handler := UpsertProgress(st, nil)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, chiReq(http.MethodPut, "/progress", `{"current_time":96}`,
		map[string]string{"course_id": c.ID, "video_id": "v2"}))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var saved course.Progress
	if err := json.NewDecoder(rr.Body).Decode(&saved); err != nil {
		t.Fatal(err)
	}
	if !saved.Completed {
		t.Fatal("96 of 100 seconds should auto-complete")
	}
	if saved.Duration != 100 {
		t.Fatalf("expected duration fallback to the video's 100s, got %d", saved.Duration)
	}
	if saved.LastWatched.IsZero() {
		t.Fatal("expected a server-side last_watched stamp")
	}

	got, err := st.GetCourse(context.Background(), c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastWatched == nil {
		t.Fatal("expected the tick to touch the course's last_watched")
	}
}

func TestUpsertProgress_BelowThresholdStaysInProgress(t *testing.T) {
	st := store.NewMemoryStore()
	c := seedCourse(t, st)

	rr := httptest.NewRecorder()
	UpsertProgress(st, nil).ServeHTTP(rr, chiReq(http.MethodPut, "/progress",
		`{"current_time":94.9}`, map[string]string{"course_id": c.ID, "video_id": "v1"}))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var saved course.Progress
	if err := json.NewDecoder(rr.Body).Decode(&saved); err != nil {
		t.Fatal(err)
	}
	if saved.Completed {
		t.Fatal("94.9 of 100 seconds must not auto-complete")
	}
}

func TestUpsertProgress_VideoNotInCourse(t *testing.T) {
	st := store.NewMemoryStore()
	c := seedCourse(t, st)

	rr := httptest.NewRecorder()
	UpsertProgress(st, nil).ServeHTTP(rr, chiReq(http.MethodPut, "/progress",
		`{"current_time":10}`, map[string]string{"course_id": c.ID, "video_id": "vX"}))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpsertProgress_UnknownCourse(t *testing.T) {
	rr := httptest.NewRecorder()
	UpsertProgress(store.NewMemoryStore(), nil).ServeHTTP(rr, chiReq(http.MethodPut, "/progress",
		`{"current_time":10}`, map[string]string{"course_id": "missing", "video_id": "v1"}))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestMarkComplete_OverridesPosition(t *testing.T) {
	st := store.NewMemoryStore()
	c := seedCourse(t, st)

	// Barely started, then explicitly completed.
	rr := httptest.NewRecorder()
	UpsertProgress(st, nil).ServeHTTP(rr, chiReq(http.MethodPut, "/progress",
		`{"current_time":5}`, map[string]string{"course_id": c.ID, "video_id": "v1"}))
	if rr.Code != http.StatusOK {
		t.Fatalf("tick: expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	MarkComplete(st).ServeHTTP(rr, chiReq(http.MethodPost, "/complete", "",
		map[string]string{"course_id": c.ID, "video_id": "v1"}))
	if rr.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", rr.Code)
	}

	var saved course.Progress
	if err := json.NewDecoder(rr.Body).Decode(&saved); err != nil {
		t.Fatal(err)
	}
	if !saved.Completed || saved.CurrentTime != 100 {
		t.Fatalf("expected completed at full duration, got %+v", saved)
	}
}

func TestNextVideo(t *testing.T) {
	st := store.NewMemoryStore()
	c := seedCourse(t, st)
	handler := NextVideo(st)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, chiReq(http.MethodGet, "/next", "",
		map[string]string{"course_id": c.ID, "video_id": "v1"}))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var view course.VideoView
	if err := json.NewDecoder(rr.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if view.ID != "v2" || view.Status != course.StatusNotStarted {
		t.Fatalf("expected fresh v2, got %+v", view)
	}
}

func TestNextVideo_LastAndUnknown(t *testing.T) {
	st := store.NewMemoryStore()
	c := seedCourse(t, st)
	handler := NextVideo(st)

	for _, videoID := range []string{"v3", "vX"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, chiReq(http.MethodGet, "/next", "",
			map[string]string{"course_id": c.ID, "video_id": videoID}))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("video %q: expected 204, got %d", videoID, rr.Code)
		}
	}
}

func TestNextVideo_CarriesStoredProgress(t *testing.T) {
	st := store.NewMemoryStore()
	c := seedCourse(t, st)

	if _, err := st.SaveProgress(context.Background(), course.Progress{
		VideoID: "v2", CourseID: c.ID, CurrentTime: 40, Duration: 100,
	}); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	NextVideo(st).ServeHTTP(rr, chiReq(http.MethodGet, "/next", "",
		map[string]string{"course_id": c.ID, "video_id": "v1"}))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var view course.VideoView
	if err := json.NewDecoder(rr.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if view.Status != course.StatusInProgress || view.Percent != 40 {
		t.Fatalf("expected in-progress at 40%%, got %+v", view)
	}
}

func TestPlayerConfig(t *testing.T) {
	rr := httptest.NewRecorder()
	PlayerConfig(staticKey("yt-key")).ServeHTTP(rr, chiReq(http.MethodGet, "/v1/config/player", "", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp["api_key"] != "yt-key" {
		t.Fatalf("expected configured key, got %+v", resp)
	}
}

type staticKey string

func (k staticKey) Key() string { return string(k) }
