package course

import (
	"testing"
	"time"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{90 * time.Minute, "1 hour ago"},
		{26 * time.Hour, "1 day ago"},
		{3 * 24 * time.Hour, "3 days ago"},
		{40 * 24 * time.Hour, "1 month ago"},
		{2 * 365 * 24 * time.Hour, "2 years ago"},
	}
	for _, tc := range cases {
		if got := TimeAgo(now.Add(-tc.ago), now); got != tc.want {
			t.Fatalf("TimeAgo(-%s) = %q, want %q", tc.ago, got, tc.want)
		}
	}

	// Clock skew: future timestamps do not produce negative output.
	if got := TimeAgo(now.Add(time.Minute), now); got != "just now" {
		t.Fatalf("future timestamp: expected \"just now\", got %q", got)
	}
}
