package youtube

import "context"

// Provider is the port for fetching playlist data from the YouTube Data API.
type Provider interface {
	PlaylistInfo(ctx context.Context, playlistID string) (*PlaylistSnippet, error)
	// PlaylistItems walks all result pages and returns every item in
	// playlist order.
	PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error)
	// VideoDurations resolves durations (in seconds) for the given video
	// ids, issuing batched lookups.
	VideoDurations(ctx context.Context, videoIDs []string) (map[string]int, error)
}
