package course

import (
	"strings"
	"time"
)

// Video is a single playlist entry. Immutable once created; owned by
// exactly one Course and embedded in it rather than stored separately.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Description string    `json:"description,omitempty"`
	Duration    int       `json:"duration"` // seconds
	PublishedAt time.Time `json:"published_at"`
	Position    int       `json:"position"` // zero-based order within the course
}

// Course is a playlist converted into a trackable unit.
type Course struct {
	ID           string     `json:"id"`
	PlaylistID   string     `json:"playlist_id"`
	Title        string     `json:"title"`
	CustomTitle  string     `json:"custom_title,omitempty"`
	Description  string     `json:"description,omitempty"`
	Thumbnail    string     `json:"thumbnail,omitempty"`
	ChannelTitle string     `json:"channel_title,omitempty"`
	Videos       []Video    `json:"videos"`
	CreatedAt    time.Time  `json:"created_at"`
	LastWatched  *time.Time `json:"last_watched,omitempty"`
}

// DisplayTitle returns the user-supplied title when set, the playlist
// title otherwise.
func (c Course) DisplayTitle() string {
	if t := strings.TrimSpace(c.CustomTitle); t != "" {
		return t
	}
	return c.Title
}

// VideoByID returns the course video with the given id.
func (c Course) VideoByID(id string) (Video, bool) {
	for _, v := range c.Videos {
		if v.ID == id {
			return v, true
		}
	}
	return Video{}, false
}

// Progress is the watch-progress record for one (video, course) pair.
// At most one record exists per pair; writes are full replacements.
type Progress struct {
	VideoID     string    `json:"video_id"`
	CourseID    string    `json:"course_id"`
	CurrentTime float64   `json:"current_time"` // seconds elapsed
	Duration    int       `json:"duration"`     // video duration at write time
	Completed   bool      `json:"completed"`
	LastWatched time.Time `json:"last_watched"`
}

// WatchStatus classifies a video's progress.
type WatchStatus string

const (
	StatusNotStarted WatchStatus = "not_started"
	StatusInProgress WatchStatus = "in_progress"
	StatusCompleted  WatchStatus = "completed"
)

// Summary is the derived per-course progress view. Not persisted.
type Summary struct {
	CompletedVideos int    `json:"completed_videos"`
	TotalVideos     int    `json:"total_videos"`
	Percentage      int    `json:"percentage"` // 0-100, rounded
	CurrentVideoID  string `json:"current_video_id,omitempty"`
}

// VideoView is a Video annotated with its progress. Not persisted.
type VideoView struct {
	Video
	Status      WatchStatus `json:"status"`
	Percent     int         `json:"percent,omitempty"`
	CurrentTime float64     `json:"current_time,omitempty"`
}
