package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/course-platform/internal/course"
	"github.com/example/course-platform/internal/platform/api"
	"github.com/example/course-platform/internal/platform/httpserver"
	"github.com/example/course-platform/internal/store"
)

type progressTickRequest struct {
	CurrentTime float64 `json:"current_time"`
	Duration    int     `json:"duration,omitempty"` // falls back to the video's known duration
}

// UpsertProgress handles PUT /v1/courses/{course_id}/videos/{video_id}/progress.
// These are the periodic player ticks: idempotent full replacements of the
// (video, course) record. With JetStream configured the write is
// acknowledged with 202 and applied by the worker; otherwise it goes
// through the store synchronously.
func UpsertProgress(st store.Store, publisher *EventPublisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		courseID := strings.TrimSpace(chi.URLParam(r, "course_id"))
		videoID := strings.TrimSpace(chi.URLParam(r, "video_id"))

		var req progressTickRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}
		if req.CurrentTime < 0 {
			req.CurrentTime = 0
		}

		c, err := st.GetCourse(r.Context(), courseID)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		v, ok := c.VideoByID(videoID)
		if !ok {
			api.NotFound(w, "VIDEO_NOT_FOUND", "video is not part of this course", rid)
			return
		}

		duration := req.Duration
		if duration <= 0 {
			duration = v.Duration
		}

		rec := course.Progress{
			VideoID:     videoID,
			CourseID:    courseID,
			CurrentTime: req.CurrentTime,
			Duration:    duration,
			Completed:   course.AutoCompleted(req.CurrentTime, duration),
		}

		if publisher.Enabled() {
			eventID, err := publisher.PublishJSON(SubjectProgressTick, map[string]any{
				"video_id":     rec.VideoID,
				"course_id":    rec.CourseID,
				"current_time": rec.CurrentTime,
				"duration":     rec.Duration,
				"completed":    rec.Completed,
			})
			if err != nil {
				api.Unavailable(w, "EVENT_PUBLISH_FAILED", "failed to publish event", rid)
				return
			}
			w.Header().Set("X-Event-ID", eventID)
			w.WriteHeader(http.StatusAccepted)
			return
		}

		saved, err := st.SaveProgress(r.Context(), rec)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, saved)
	}
}

// MarkComplete handles POST /v1/courses/{course_id}/videos/{video_id}/complete.
// Explicit completion overrides the watched-ratio rule unconditionally and
// always writes through the store; a lost completion is user-visible in a
// way a lost tick is not.
func MarkComplete(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		courseID := strings.TrimSpace(chi.URLParam(r, "course_id"))
		videoID := strings.TrimSpace(chi.URLParam(r, "video_id"))

		c, err := st.GetCourse(r.Context(), courseID)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		v, ok := c.VideoByID(videoID)
		if !ok {
			api.NotFound(w, "VIDEO_NOT_FOUND", "video is not part of this course", rid)
			return
		}

		saved, err := st.SaveProgress(r.Context(), course.Progress{
			VideoID:     videoID,
			CourseID:    courseID,
			CurrentTime: float64(v.Duration),
			Duration:    v.Duration,
			Completed:   true,
		})
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, saved)
	}
}

// NextVideo handles GET /v1/courses/{course_id}/videos/{video_id}/next.
// Responds 204 when the video is the last one or unknown.
func NextVideo(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		courseID := strings.TrimSpace(chi.URLParam(r, "course_id"))
		videoID := strings.TrimSpace(chi.URLParam(r, "video_id"))

		c, err := st.GetCourse(r.Context(), courseID)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		next, ok := course.Next(c, videoID)
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		var rec *course.Progress
		if stored, err := st.GetProgress(r.Context(), next.ID, courseID); err == nil {
			rec = &stored
		}
		api.WriteJSON(w, http.StatusOK, course.Annotate(next, rec))
	}
}
