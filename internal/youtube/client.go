package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrPlaylistNotFound is returned when the API knows nothing about the id.
var ErrPlaylistNotFound = errors.New("playlist not found")

// durationBatchSize is the API's maximum number of video ids per request.
const durationBatchSize = 50

// Client talks to the YouTube Data API v3 with an injected key. The key is
// explicit state with a refresh operation, not a package-level cache.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu  sync.RWMutex
	key string
}

func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		key:        apiKey,
	}
}

// SetKey swaps the API key, e.g. after a quota rotation.
func (c *Client) SetKey(apiKey string) {
	c.mu.Lock()
	c.key = apiKey
	c.mu.Unlock()
}

// Key returns the current API key.
func (c *Client) Key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.key
}

type thumbnails struct {
	Medium struct {
		URL string `json:"url"`
	} `json:"medium"`
	High struct {
		URL string `json:"url"`
	} `json:"high"`
}

// BestURL prefers the medium rendition; players scale it up acceptably.
func (t thumbnails) BestURL() string {
	if t.Medium.URL != "" {
		return t.Medium.URL
	}
	return t.High.URL
}

// PlaylistSnippet is the playlist-level metadata block.
type PlaylistSnippet struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ChannelTitle string     `json:"channelTitle"`
	Thumbnails   thumbnails `json:"thumbnails"`
}

// PlaylistItem is one entry of a playlist listing.
type PlaylistItem struct {
	Snippet struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Position    int        `json:"position"`
		PublishedAt time.Time  `json:"publishedAt"`
		Thumbnails  thumbnails `json:"thumbnails"`
		ResourceID  struct {
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
	} `json:"snippet"`
}

type playlistListResponse struct {
	Items []struct {
		Snippet PlaylistSnippet `json:"snippet"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items         []PlaylistItem `json:"items"`
	NextPageToken string         `json:"nextPageToken"`
}

type videoListResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

func (c *Client) PlaylistInfo(ctx context.Context, playlistID string) (*PlaylistSnippet, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("id", playlistID)

	var out playlistListResponse
	if err := c.get(ctx, "/playlists", q, &out); err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, ErrPlaylistNotFound
	}
	return &out.Items[0].Snippet, nil
}

func (c *Client) PlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	var items []PlaylistItem
	pageToken := ""
	for {
		q := url.Values{}
		q.Set("part", "snippet")
		q.Set("maxResults", "50")
		q.Set("playlistId", playlistID)
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		var page playlistItemsResponse
		if err := c.get(ctx, "/playlistItems", q, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) VideoDurations(ctx context.Context, videoIDs []string) (map[string]int, error) {
	iso := make(map[string]string, len(videoIDs))
	for start := 0; start < len(videoIDs); start += durationBatchSize {
		end := start + durationBatchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		q := url.Values{}
		q.Set("part", "contentDetails")
		q.Set("id", strings.Join(videoIDs[start:end], ","))

		var out videoListResponse
		if err := c.get(ctx, "/videos", q, &out); err != nil {
			return nil, err
		}
		for _, it := range out.Items {
			iso[it.ID] = it.ContentDetails.Duration
		}
	}
	return parseDurations(iso), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dest any) error {
	q.Set("key", c.Key())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "course-platform/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrPlaylistNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube: status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)]))
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("youtube: decode error: %w body=%q", err, string(b[:min(len(b), 200)]))
	}
	return nil
}
