package catalog

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestNextTerm(t *testing.T) {
	t.Parallel()

	cases := []struct {
		now  time.Time
		want TermCode
	}{
		{date(2026, time.January, 15), "20261"},
		{date(2026, time.February, 1), "20263"},
		{date(2026, time.June, 10), "20263"},
		{date(2026, time.August, 31), "20263"},
		{date(2025, time.September, 1), "20261"},
		{date(2025, time.December, 31), "20261"},
	}
	for _, tc := range cases {
		if got := NextTerm(tc.now); got != tc.want {
			t.Fatalf("NextTerm(%s) = %s, want %s", tc.now.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestParseTerm(t *testing.T) {
	t.Parallel()

	now := date(2025, time.June, 1)

	got, err := ParseTerm("", now)
	if err != nil {
		t.Fatalf("ParseTerm(empty) error = %v", err)
	}
	if got != "20253" {
		t.Fatalf("ParseTerm(empty) = %s, want 20253", got)
	}

	cases := []struct {
		in   string
		want TermCode
	}{
		{"20253", "20253"},
		{"Fall 2025", "20253"},
		{"spring 2026", "20261"},
		{"Summer 2025", "20252"},
	}
	for _, tc := range cases {
		got, err := ParseTerm(tc.in, now)
		if err != nil {
			t.Fatalf("ParseTerm(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTerm(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"20254", "2025", "Winter 2025", "fall"} {
		if _, err := ParseTerm(bad, now); err == nil {
			t.Fatalf("ParseTerm(%q) expected error", bad)
		}
	}
}
