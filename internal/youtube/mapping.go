package youtube

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/course-platform/internal/course"
)

// BuildCourse resolves a playlist id into a normalized Course: playlist
// metadata, the full ordered item listing, and durations from the batched
// video lookup.
func BuildCourse(ctx context.Context, p Provider, playlistID string) (course.Course, error) {
	info, err := p.PlaylistInfo(ctx, playlistID)
	if err != nil {
		return course.Course{}, err
	}
	items, err := p.PlaylistItems(ctx, playlistID)
	if err != nil {
		return course.Course{}, err
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		if id := it.Snippet.ResourceID.VideoID; id != "" {
			ids = append(ids, id)
		}
	}
	durations, err := p.VideoDurations(ctx, ids)
	if err != nil {
		return course.Course{}, err
	}

	return course.Course{
		ID:           uuid.NewString(),
		PlaylistID:   playlistID,
		Title:        strings.TrimSpace(info.Title),
		Description:  strings.TrimSpace(info.Description),
		Thumbnail:    info.Thumbnails.BestURL(),
		ChannelTitle: strings.TrimSpace(info.ChannelTitle),
		Videos:       toVideos(items, durations),
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// toVideos converts playlist items to course videos in playlist order.
// Deleted and private entries carry no video id and are dropped; positions
// are reassigned afterwards so the sequence has no gaps.
func toVideos(items []PlaylistItem, durations map[string]int) []course.Video {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Snippet.Position < items[j].Snippet.Position
	})

	out := make([]course.Video, 0, len(items))
	for _, it := range items {
		id := it.Snippet.ResourceID.VideoID
		if id == "" {
			continue
		}
		out = append(out, course.Video{
			ID:          id,
			Title:       strings.TrimSpace(it.Snippet.Title),
			Thumbnail:   it.Snippet.Thumbnails.BestURL(),
			Description: strings.TrimSpace(it.Snippet.Description),
			Duration:    durations[id],
			PublishedAt: it.Snippet.PublishedAt,
			Position:    len(out),
		})
	}
	return out
}

// parseDurations converts the API's ISO-8601 duration strings to seconds,
// skipping entries that fail to parse (live streams report "P0D").
func parseDurations(iso map[string]string) map[string]int {
	out := make(map[string]int, len(iso))
	for id, s := range iso {
		if sec, err := course.ParseISODuration(s); err == nil {
			out[id] = sec
		}
	}
	return out
}
