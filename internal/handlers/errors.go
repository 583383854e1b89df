package handlers

import (
	"errors"
	"net/http"

	"github.com/example/course-platform/internal/platform/api"
	"github.com/example/course-platform/internal/store"
	"github.com/example/course-platform/internal/youtube"
)

// writeDomainError maps store and metadata-client failures onto the HTTP
// error envelope. Anything unrecognized is an internal error.
func writeDomainError(w http.ResponseWriter, rid string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", "not found", rid)
	case errors.Is(err, store.ErrDuplicate):
		api.Conflict(w, "COURSE_EXISTS", "course already exists", rid, nil)
	case errors.Is(err, youtube.ErrInvalidURL):
		api.BadRequest(w, "INVALID_URL", "url has no playlist id", rid, nil)
	case errors.Is(err, youtube.ErrPlaylistNotFound):
		api.NotFound(w, "PLAYLIST_NOT_FOUND", "playlist not found", rid)
	default:
		api.Internal(w, rid)
	}
}
