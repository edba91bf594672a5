package catalog

import (
	"fmt"
	"strings"
	"time"
)

// TermCode is the upstream five-digit term identifier: year plus semester
// digit, e.g. "20253" for Fall 2025 (1=Spring, 2=Summer, 3=Fall).
type TermCode string

func (t TermCode) String() string {
	return string(t)
}

// NextTerm derives the upcoming enrollment term from a point in time:
// January plans for Spring of the same year, February through August for
// Fall, September through December for Spring of the next year.
func NextTerm(now time.Time) TermCode {
	year := now.Year()
	if now.Month() >= time.September {
		year++
	}
	semester := 1
	if now.Month() >= time.February && now.Month() <= time.August {
		semester = 3
	}
	return TermCode(fmt.Sprintf("%d%d", year, semester))
}

// ParseTerm accepts a five-digit code ("20253"), a season-year name
// ("Fall 2025"), or the empty string, which resolves to the upcoming term.
func ParseTerm(raw string, now time.Time) (TermCode, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NextTerm(now), nil
	}

	if len(s) == 5 && allDigits(s) {
		sem := s[4]
		if sem < '1' || sem > '3' {
			return "", fmt.Errorf("term %q has invalid semester digit", raw)
		}
		return TermCode(s), nil
	}

	season, year, ok := strings.Cut(strings.ToLower(s), " ")
	if ok && len(year) == 4 && allDigits(year) {
		switch season {
		case "spring":
			return TermCode(year + "1"), nil
		case "summer":
			return TermCode(year + "2"), nil
		case "fall":
			return TermCode(year + "3"), nil
		}
	}

	return "", fmt.Errorf("term %q has an invalid format, expected \"Fall 2025\" or \"20253\"", raw)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
