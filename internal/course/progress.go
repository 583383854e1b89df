package course

import (
	"math"
	"sort"
)

// completedThreshold is the watched ratio at which a video counts as
// finished without an explicit completion action.
const completedThreshold = 0.95

// AutoCompleted reports whether a progress position qualifies as finished
// under the watched-ratio rule. Zero-duration videos never auto-complete;
// explicit completion is the only path for those.
func AutoCompleted(currentTime float64, duration int) bool {
	if duration <= 0 {
		return false
	}
	return currentTime >= completedThreshold*float64(duration)
}

// Summarize derives the completion view for a course from its progress
// records. Records for videos no longer in the course still count toward
// recency but never toward completion counts.
func Summarize(c Course, recs []Progress) Summary {
	s := Summary{TotalVideos: len(c.Videos)}

	var latest *Progress
	for i := range recs {
		r := &recs[i]
		if r.Completed {
			if _, ok := c.VideoByID(r.VideoID); ok {
				s.CompletedVideos++
			}
		}
		if latest == nil || r.LastWatched.After(latest.LastWatched) {
			latest = r
		}
	}
	if latest != nil {
		s.CurrentVideoID = latest.VideoID
	}
	if s.TotalVideos > 0 {
		s.Percentage = int(math.Round(100 * float64(s.CompletedVideos) / float64(s.TotalVideos)))
	}
	return s
}

// Annotate classifies a video against its progress record (nil when the
// video has never been played).
func Annotate(v Video, rec *Progress) VideoView {
	out := VideoView{Video: v, Status: StatusNotStarted}
	if rec == nil {
		return out
	}

	switch {
	case rec.Completed:
		out.Status = StatusCompleted
		out.Percent = 100
		out.CurrentTime = rec.CurrentTime
	case rec.CurrentTime > 0:
		out.Status = StatusInProgress
		out.Percent = watchedPercent(rec.CurrentTime, rec.Duration)
		out.CurrentTime = rec.CurrentTime
	}
	return out
}

func watchedPercent(currentTime float64, duration int) int {
	if duration <= 0 {
		return 0
	}
	p := int(math.Round(100 * currentTime / float64(duration)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Next returns the video after currentID in the course's ordered
// sequence, or false when currentID is the last video or not part of the
// course. Position values may have gaps; ordering is by slice index.
func Next(c Course, currentID string) (Video, bool) {
	for i, v := range c.Videos {
		if v.ID == currentID {
			if i+1 < len(c.Videos) {
				return c.Videos[i+1], true
			}
			return Video{}, false
		}
	}
	return Video{}, false
}

// SortByRecency orders courses for the library view: watched courses
// first, most recent first; never-watched courses after, newest first.
func SortByRecency(cs []Course) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i].LastWatched, cs[j].LastWatched
		switch {
		case a != nil && b != nil:
			if !a.Equal(*b) {
				return a.After(*b)
			}
		case a != nil:
			return true
		case b != nil:
			return false
		}
		return cs[i].CreatedAt.After(cs[j].CreatedAt)
	})
}
