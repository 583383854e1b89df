package youtube

import (
	"errors"
	"regexp"
)

// ErrInvalidURL is returned when no playlist identifier can be extracted
// from a user-submitted URL.
var ErrInvalidURL = errors.New("url has no playlist id")

var playlistIDRE = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)

// ExtractPlaylistID pulls the "list" parameter out of a watch or playlist
// URL. It accepts any URL shape YouTube uses as long as the parameter is
// present.
func ExtractPlaylistID(rawURL string) (string, error) {
	m := playlistIDRE.FindStringSubmatch(rawURL)
	if m == nil {
		return "", ErrInvalidURL
	}
	return m[1], nil
}
