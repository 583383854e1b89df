package course

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var isoDurationRE = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration converts an ISO-8601 duration as returned by video
// metadata APIs ("PT1H2M3S", "PT4M13S", "P1DT2H") to whole seconds.
func ParseISODuration(s string) (int, error) {
	m := isoDurationRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	days, _ := strconv.Atoi(zeroIfEmpty(m[1]))
	hours, _ := strconv.Atoi(zeroIfEmpty(m[2]))
	mins, _ := strconv.Atoi(zeroIfEmpty(m[3]))
	secs, _ := strconv.Atoi(zeroIfEmpty(m[4]))
	return ((days*24+hours)*60+mins)*60 + secs, nil
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// FormatClock renders seconds as a player clock string: "4:13", "1:02:03".
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
