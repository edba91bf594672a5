// Package catalog holds the domain model for the class schedule: courses,
// sections, meeting times, and the time-bounded cache in front of the
// upstream schedule-of-classes feed.
package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CourseID identifies an abstract course offering, independent of term or
// meeting time.
type CourseID struct {
	Department string `json:"department"`
	Number     string `json:"number"`
}

func (id CourseID) String() string {
	return id.Department + " " + id.Number
}

func (id CourseID) IsZero() bool {
	return id.Department == "" && id.Number == ""
}

// ParseCourseID accepts "CSCI 170", "csci170", and "CSCI-170" shapes. The
// number is the trailing run of digits plus an optional letter suffix
// ("499x"). Returns false when the token has no digit at all.
func ParseCourseID(raw string) (CourseID, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", " ")

	fields := strings.Fields(s)
	if len(fields) > 1 {
		num := fields[len(fields)-1]
		if !startsWithDigit(num) {
			return CourseID{}, false
		}
		return CourseID{
			Department: strings.Join(fields[:len(fields)-1], " "),
			Number:     num,
		}, true
	}

	// No separator: split at the first digit ("CSCI170").
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			if i == 0 {
				return CourseID{}, false
			}
			return CourseID{Department: s[:i], Number: s[i:]}, true
		}
	}
	return CourseID{}, false
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// Minutes is a clock time as minutes since midnight.
type Minutes int

// ParseClock parses "14:30" into minutes since midnight.
func ParseClock(raw string) (Minutes, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	return Minutes(h*60 + m), nil
}

func (m Minutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// ParseDays converts the upstream single-letter day string ("MWF", "TH") to
// weekdays. Unknown letters are skipped, matching the upstream feed's habit
// of embedding stray characters.
func ParseDays(raw string) []time.Weekday {
	codes := map[byte]time.Weekday{
		'M': time.Monday,
		'T': time.Tuesday,
		'W': time.Wednesday,
		'H': time.Thursday,
		'F': time.Friday,
		'S': time.Saturday,
		'U': time.Sunday,
	}
	var days []time.Weekday
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if d, ok := codes[c]; ok {
			days = append(days, d)
		}
	}
	return days
}

// TimeSlot is one recurring meeting block. A slot with End <= Start carries
// no usable time (TBA meetings) and never conflicts.
type TimeSlot struct {
	Days  []time.Weekday `json:"days"`
	Start Minutes        `json:"start"`
	End   Minutes        `json:"end"`
}

func (t TimeSlot) Timed() bool {
	return t.End > t.Start
}

// Overlaps reports whether two slots share at least one day and their
// [start, end) intervals intersect.
func (t TimeSlot) Overlaps(other TimeSlot) bool {
	if !t.Timed() || !other.Timed() {
		return false
	}
	if t.Start >= other.End || other.Start >= t.End {
		return false
	}
	for _, d := range t.Days {
		for _, od := range other.Days {
			if d == od {
				return true
			}
		}
	}
	return false
}

func (t TimeSlot) String() string {
	names := make([]string, 0, len(t.Days))
	for _, d := range t.Days {
		names = append(names, d.String()[:3])
	}
	if !t.Timed() {
		return strings.Join(names, ", ") + " TBA"
	}
	return fmt.Sprintf("%s %s-%s", strings.Join(names, ", "), t.Start, t.End)
}

// Units is the declared unit range of a course. Fixed-unit courses have
// Min == Max.
type Units struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ParseUnits parses upstream unit strings: "4.0", "1.0-8.0", and the
// occasional "4.0, 2.0" (first value wins). Unparseable input yields zero
// units rather than an error; the feed is untrusted.
func ParseUnits(raw string) Units {
	s := strings.TrimSpace(raw)
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	lo, hi, found := strings.Cut(s, "-")
	minVal, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return Units{}
	}
	if !found {
		return Units{Min: minVal, Max: minVal}
	}
	maxVal, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil || maxVal < minVal {
		return Units{Min: minVal, Max: minVal}
	}
	return Units{Min: minVal, Max: maxVal}
}

// Load is the declared enrollment load of the course: the top of the range.
func (u Units) Load() float64 {
	return u.Max
}

func (u Units) String() string {
	if u.Min == u.Max {
		return strconv.FormatFloat(u.Max, 'g', -1, 64)
	}
	return fmt.Sprintf("%g-%g", u.Min, u.Max)
}

type Instructor struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	BioURL    string `json:"bio_url,omitempty"`
}

func (i Instructor) String() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return "N/A"
	}
	return name
}

// Section is one concretely scheduled offering of a course in a term,
// identified by its section code (unique per term).
type Section struct {
	Code       string     `json:"code"`
	Course     CourseID   `json:"course"`
	Term       TermCode   `json:"term"`
	Title      string     `json:"title"`
	Instructor Instructor `json:"instructor"`
	Location   string     `json:"location,omitempty"`
	Slots      []TimeSlot `json:"slots,omitempty"`
	SeatsTotal int        `json:"seats_total"`
	SeatsTaken int        `json:"seats_taken"`
	Units      Units      `json:"units"`
}

func (s *Section) SeatsLeft() int {
	if s == nil {
		return 0
	}
	left := s.SeatsTotal - s.SeatsTaken
	if left < 0 {
		return 0
	}
	return left
}

// ConflictsWith reports whether any meeting slots of the two sections
// overlap. Symmetric.
func (s *Section) ConflictsWith(other *Section) bool {
	if s == nil || other == nil {
		return false
	}
	for _, a := range s.Slots {
		for _, b := range other.Slots {
			if a.Overlaps(b) {
				return true
			}
		}
	}
	return false
}

// Course is an abstract offering plus its sections for one term. Immutable
// once fetched within a cache epoch.
type Course struct {
	ID          CourseID    `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Units       Units       `json:"units"`
	Prereq      *PrereqExpr `json:"prereq,omitempty"`
	Sections    []*Section  `json:"sections,omitempty"`
}

// SortSections orders sections lexically by code; every selection tie-break
// relies on this order being stable.
func (c *Course) SortSections() {
	sort.Slice(c.Sections, func(i, j int) bool {
		return c.Sections[i].Code < c.Sections[j].Code
	})
}

func (c *Course) SectionByCode(code string) *Section {
	if c == nil {
		return nil
	}
	for _, s := range c.Sections {
		if s.Code == code {
			return s
		}
	}
	return nil
}

// Department is one row of the upstream department directory.
type Department struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
