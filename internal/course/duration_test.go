package course

import "testing"

func TestParseISODuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"PT4M13S", 253},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"P1DT2H", 93600},
		{"PT0S", 0},
	}
	for _, tc := range cases {
		got, err := ParseISODuration(tc.in)
		if err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.in, tc.want, got)
		}
	}

	for _, bad := range []string{"", "4m13s", "1H2M", "garbage"} {
		if _, err := ParseISODuration(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0:00"},
		{45, "0:45"},
		{253, "4:13"},
		{3723, "1:02:03"},
		{-5, "0:00"},
	}
	for _, tc := range cases {
		if got := FormatClock(tc.in); got != tc.want {
			t.Fatalf("FormatClock(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
