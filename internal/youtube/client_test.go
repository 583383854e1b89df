package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPlaylistItems_Pagination(t *testing.T) {
	var tokens []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/playlistItems" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Fatalf("missing api key in request")
		}
		tok := r.URL.Query().Get("pageToken")
		tokens = append(tokens, tok)

		resp := playlistItemsResponse{}
		switch tok {
		case "":
			resp.NextPageToken = "page2"
			resp.Items = make([]PlaylistItem, 50)
		case "page2":
			resp.Items = make([]PlaylistItem, 7)
		default:
			t.Fatalf("unexpected page token %q", tok)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key")
	items, err := c.PlaylistItems(context.Background(), "PL1")
	if err != nil {
		t.Fatalf("playlist items: %v", err)
	}
	if len(items) != 57 {
		t.Fatalf("expected 57 items across pages, got %d", len(items))
	}
	if len(tokens) != 2 || tokens[1] != "page2" {
		t.Fatalf("expected two page fetches, got %v", tokens)
	}
}

func TestVideoDurations_Batching(t *testing.T) {
	var batches [][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("id"), ",")
		batches = append(batches, ids)

		items := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			items = append(items, map[string]any{
				"id":             id,
				"contentDetails": map[string]any{"duration": "PT1M40S"},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	}))
	defer srv.Close()

	ids := make([]string, 73)
	for i := range ids {
		ids[i] = fmt.Sprintf("vid%03d", i)
	}

	c := New(srv.URL, "k")
	durations, err := c.VideoDurations(context.Background(), ids)
	if err != nil {
		t.Fatalf("durations: %v", err)
	}
	if len(batches) != 2 || len(batches[0]) != 50 || len(batches[1]) != 23 {
		t.Fatalf("expected batches of 50 and 23, got %d batches", len(batches))
	}
	if durations["vid000"] != 100 {
		t.Fatalf("expected 100s, got %d", durations["vid000"])
	}
	if len(durations) != 73 {
		t.Fatalf("expected all ids resolved, got %d", len(durations))
	}
}

func TestPlaylistInfo_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(playlistListResponse{})
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	if _, err := c.PlaylistInfo(context.Background(), "PLmissing"); err != ErrPlaylistNotFound {
		t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
	}
}

func TestClient_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"quotaExceeded"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	_, err := c.PlaylistInfo(context.Background(), "PL1")
	if err == nil || !strings.Contains(err.Error(), "status 403") {
		t.Fatalf("expected upstream status error, got %v", err)
	}
}

func TestClient_SetKey(t *testing.T) {
	c := New("", "first")
	if c.Key() != "first" {
		t.Fatalf("expected injected key, got %q", c.Key())
	}
	c.SetKey("second")
	if c.Key() != "second" {
		t.Fatalf("expected refreshed key, got %q", c.Key())
	}
}
