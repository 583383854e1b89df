package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/course-platform/internal/cache"
	"github.com/example/course-platform/internal/course"
	"github.com/example/course-platform/internal/platform/api"
	"github.com/example/course-platform/internal/platform/httpserver"
	"github.com/example/course-platform/internal/store"
	"github.com/example/course-platform/internal/youtube"
)

type addCourseRequest struct {
	URL string `json:"url"`
}

type updateCourseRequest struct {
	CustomTitle string `json:"custom_title"`
}

type courseListItem struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	ChannelTitle   string     `json:"channel_title,omitempty"`
	Thumbnail      string     `json:"thumbnail,omitempty"`
	TotalVideos    int        `json:"total_videos"`
	Completed      int        `json:"completed_videos"`
	Percentage     int        `json:"percentage"`
	CurrentVideoID string     `json:"current_video_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastWatched    *time.Time `json:"last_watched,omitempty"`
	LastWatchedAgo string     `json:"last_watched_ago,omitempty"`
}

type courseDetailResponse struct {
	ID           string             `json:"id"`
	PlaylistID   string             `json:"playlist_id"`
	Title        string             `json:"title"`
	CustomTitle  string             `json:"custom_title,omitempty"`
	Description  string             `json:"description,omitempty"`
	ChannelTitle string             `json:"channel_title,omitempty"`
	Thumbnail    string             `json:"thumbnail,omitempty"`
	Summary      course.Summary     `json:"summary"`
	Videos       []videoResponse `json:"videos"`
	CreatedAt    time.Time          `json:"created_at"`
	LastWatched  *time.Time         `json:"last_watched,omitempty"`
}

type videoResponse struct {
	course.VideoView
	DurationClock string `json:"duration_clock"`
}

func cacheKeyPlaylist(playlistID string) string {
	return "playlist:" + playlistID
}

// AddCourse handles POST /v1/courses.
func AddCourse(st store.Store, provider youtube.Provider, cch cache.Cache, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		var req addCourseRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		playlistID, err := youtube.ExtractPlaylistID(strings.TrimSpace(req.URL))
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		// Insertion never overwrites; an existing course for the playlist
		// is a conflict, reported with the id the caller should use.
		if existing, err := st.GetCourseByPlaylistID(r.Context(), playlistID); err == nil {
			api.Conflict(w, "COURSE_EXISTS", "course already exists", rid, map[string]any{"course_id": existing.ID})
			return
		}

		c, ok := cachedCourse(r.Context(), cch, playlistID)
		if !ok {
			c, err = youtube.BuildCourse(r.Context(), provider, playlistID)
			if err != nil {
				switch err {
				case youtube.ErrPlaylistNotFound:
					writeDomainError(w, rid, err)
				default:
					log.Warn("metadata fetch failed", zap.String("playlist_id", playlistID), zap.Error(err))
					api.BadGateway(w, "UPSTREAM_FETCH_FAILED", "metadata service unavailable", rid)
				}
				return
			}
			if cch != nil {
				if err := cch.Set(r.Context(), cacheKeyPlaylist(playlistID), c); err != nil {
					log.Warn("cache write failed", zap.Error(err))
				}
			}
		}

		if err := st.CreateCourse(r.Context(), c); err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, toCourseDetail(c, nil))
	}
}

// cachedCourse returns a previously built course for the playlist, with a
// fresh id and creation time so cache reuse never resurrects old identity.
func cachedCourse(ctx context.Context, cch cache.Cache, playlistID string) (course.Course, bool) {
	if cch == nil {
		return course.Course{}, false
	}
	var c course.Course
	ok, err := cch.Get(ctx, cacheKeyPlaylist(playlistID), &c)
	if err != nil || !ok {
		return course.Course{}, false
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	c.LastWatched = nil
	return c, true
}

// ListCourses handles GET /v1/courses.
func ListCourses(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		courses, err := st.ListCourses(r.Context())
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		course.SortByRecency(courses)

		now := time.Now().UTC()
		out := make([]courseListItem, 0, len(courses))
		for _, c := range courses {
			recs, err := st.ListProgressByCourse(r.Context(), c.ID)
			if err != nil {
				writeDomainError(w, rid, err)
				return
			}
			s := course.Summarize(c, recs)

			item := courseListItem{
				ID:             c.ID,
				Title:          c.DisplayTitle(),
				ChannelTitle:   c.ChannelTitle,
				Thumbnail:      c.Thumbnail,
				TotalVideos:    s.TotalVideos,
				Completed:      s.CompletedVideos,
				Percentage:     s.Percentage,
				CurrentVideoID: s.CurrentVideoID,
				CreatedAt:      c.CreatedAt,
				LastWatched:    c.LastWatched,
			}
			if c.LastWatched != nil {
				item.LastWatchedAgo = course.TimeAgo(*c.LastWatched, now)
			}
			out = append(out, item)
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"courses": out})
	}
}

// GetCourse handles GET /v1/courses/{course_id}.
func GetCourse(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		courseID := strings.TrimSpace(chi.URLParam(r, "course_id"))
		if courseID == "" {
			api.BadRequest(w, "MISSING_ID", "course_id is required", rid, nil)
			return
		}

		c, err := st.GetCourse(r.Context(), courseID)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		recs, err := st.ListProgressByCourse(r.Context(), courseID)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, toCourseDetail(c, recs))
	}
}

// UpdateCourse handles PATCH /v1/courses/{course_id} (custom title only;
// playlist-sourced fields change through refresh).
func UpdateCourse(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		courseID := strings.TrimSpace(chi.URLParam(r, "course_id"))
		var req updateCourseRequest
		if !decodeJSON(w, r, rid, &req) {
			return
		}

		if err := st.UpdateCustomTitle(r.Context(), courseID, strings.TrimSpace(req.CustomTitle)); err != nil {
			writeDomainError(w, rid, err)
			return
		}
		c, err := st.GetCourse(r.Context(), courseID)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, toCourseDetail(c, nil))
	}
}

// DeleteCourse handles DELETE /v1/courses/{course_id}. Progress records go
// with the course.
func DeleteCourse(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		courseID := strings.TrimSpace(chi.URLParam(r, "course_id"))
		if err := st.DeleteCourse(r.Context(), courseID); err != nil {
			writeDomainError(w, rid, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RefreshCourse handles POST /v1/courses/{course_id}/refresh. The re-fetch
// is best-effort and runs after the response; failures are logged, never
// surfaced.
func RefreshCourse(st store.Store, provider youtube.Provider, cch cache.Cache, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())

		courseID := strings.TrimSpace(chi.URLParam(r, "course_id"))
		c, err := st.GetCourse(r.Context(), courseID)
		if err != nil {
			writeDomainError(w, rid, err)
			return
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			fresh, err := youtube.BuildCourse(ctx, provider, c.PlaylistID)
			if err != nil {
				log.Warn("course refresh failed", zap.String("course_id", c.ID), zap.Error(err))
				return
			}
			meta := store.CourseMeta{
				Title:        fresh.Title,
				Description:  fresh.Description,
				Thumbnail:    fresh.Thumbnail,
				ChannelTitle: fresh.ChannelTitle,
			}
			if err := st.ReplaceVideos(ctx, c.ID, meta, fresh.Videos); err != nil {
				log.Warn("course refresh write failed", zap.String("course_id", c.ID), zap.Error(err))
				return
			}
			if cch != nil {
				_ = cch.Delete(ctx, cacheKeyPlaylist(c.PlaylistID))
			}
			log.Info("course refreshed", zap.String("course_id", c.ID), zap.Int("videos", len(fresh.Videos)))
		}()

		w.WriteHeader(http.StatusAccepted)
	}
}

func toCourseDetail(c course.Course, recs []course.Progress) courseDetailResponse {
	byVideo := make(map[string]*course.Progress, len(recs))
	for i := range recs {
		byVideo[recs[i].VideoID] = &recs[i]
	}

	videos := make([]videoResponse, 0, len(c.Videos))
	for _, v := range c.Videos {
		videos = append(videos, videoResponse{
			VideoView:     course.Annotate(v, byVideo[v.ID]),
			DurationClock: course.FormatClock(v.Duration),
		})
	}

	return courseDetailResponse{
		ID:           c.ID,
		PlaylistID:   c.PlaylistID,
		Title:        c.DisplayTitle(),
		CustomTitle:  c.CustomTitle,
		Description:  c.Description,
		ChannelTitle: c.ChannelTitle,
		Thumbnail:    c.Thumbnail,
		Summary:      course.Summarize(c, recs),
		Videos:       videos,
		CreatedAt:    c.CreatedAt,
		LastWatched:  c.LastWatched,
	}
}
