package handlers

import (
	"net/http"

	"github.com/example/course-platform/internal/platform/api"
)

// KeySource exposes the current player API credential.
type KeySource interface {
	Key() string
}

// PlayerConfig handles GET /v1/config/player: the configuration-delivery
// endpoint the embedded player bootstraps from.
func PlayerConfig(keys KeySource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"api_key": keys.Key()})
	}
}
