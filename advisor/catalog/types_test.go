package catalog

import (
	"testing"
	"time"
)

func TestParseCourseID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want CourseID
		ok   bool
	}{
		{"CSCI 170", CourseID{Department: "CSCI", Number: "170"}, true},
		{"csci170", CourseID{Department: "CSCI", Number: "170"}, true},
		{"CSCI-170", CourseID{Department: "CSCI", Number: "170"}, true},
		{"  ee 109 ", CourseID{Department: "EE", Number: "109"}, true},
		{"CSCI 499x", CourseID{Department: "CSCI", Number: "499X"}, true},
		{"CSCI", CourseID{}, false},
		{"170", CourseID{}, false},
		{"", CourseID{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseCourseID(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseCourseID(%q) = %v, %v, want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	got, err := ParseClock("14:30")
	if err != nil {
		t.Fatalf("ParseClock() error = %v", err)
	}
	if got != Minutes(14*60+30) {
		t.Fatalf("ParseClock() = %d, want %d", got, 14*60+30)
	}
	if got.String() != "14:30" {
		t.Fatalf("String() = %q, want %q", got.String(), "14:30")
	}

	for _, bad := range []string{"", "TBA", "25:00", "9:60", "9"} {
		if _, err := ParseClock(bad); err == nil {
			t.Fatalf("ParseClock(%q) expected error", bad)
		}
	}
}

func TestParseDays(t *testing.T) {
	t.Parallel()

	got := ParseDays("MWF")
	want := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	if len(got) != len(want) {
		t.Fatalf("ParseDays() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ParseDays()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := ParseDays("TH"); len(got) != 2 || got[0] != time.Tuesday || got[1] != time.Thursday {
		t.Fatalf("ParseDays(TH) = %v", got)
	}
	if got := ParseDays(""); got != nil {
		t.Fatalf("ParseDays(empty) = %v, want nil", got)
	}
}

func slot(days string, start, end string) TimeSlot {
	s, _ := ParseClock(start)
	e, _ := ParseClock(end)
	return TimeSlot{Days: ParseDays(days), Start: s, End: e}
}

func TestTimeSlotOverlaps(t *testing.T) {
	t.Parallel()

	a := slot("M", "09:00", "09:50")
	b := slot("M", "09:30", "10:20")
	if !a.Overlaps(b) || !b.Overlaps(a) {
		t.Fatal("expected symmetric overlap on shared Monday interval")
	}

	c := slot("T", "09:30", "10:20")
	if a.Overlaps(c) {
		t.Fatal("disjoint days must not overlap")
	}

	// Back-to-back intervals share an endpoint but not time.
	d := slot("M", "09:50", "10:40")
	if a.Overlaps(d) {
		t.Fatal("[start, end) intervals touching at the boundary must not overlap")
	}

	tba := TimeSlot{Days: ParseDays("M")}
	if a.Overlaps(tba) || tba.Overlaps(a) {
		t.Fatal("TBA slots must never overlap")
	}
}

func TestParseUnits(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Units
	}{
		{"4.0", Units{Min: 4, Max: 4}},
		{"1.0-8.0", Units{Min: 1, Max: 8}},
		{"4.0, 2.0", Units{Min: 4, Max: 4}},
		{"", Units{}},
		{"TBA", Units{}},
	}
	for _, tc := range cases {
		if got := ParseUnits(tc.in); got != tc.want {
			t.Fatalf("ParseUnits(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if got := (Units{Min: 1, Max: 8}).Load(); got != 8 {
		t.Fatalf("Load() = %v, want 8", got)
	}
}

func TestSectionSeatsLeft(t *testing.T) {
	t.Parallel()

	s := &Section{SeatsTotal: 30, SeatsTaken: 28}
	if got := s.SeatsLeft(); got != 2 {
		t.Fatalf("SeatsLeft() = %d, want 2", got)
	}

	over := &Section{SeatsTotal: 30, SeatsTaken: 31}
	if got := over.SeatsLeft(); got != 0 {
		t.Fatalf("SeatsLeft() overenrolled = %d, want 0", got)
	}

	var nilSection *Section
	if got := nilSection.SeatsLeft(); got != 0 {
		t.Fatalf("SeatsLeft() on nil = %d, want 0", got)
	}
}

func TestCourseSortSections(t *testing.T) {
	t.Parallel()

	course := &Course{Sections: []*Section{
		{Code: "29981"},
		{Code: "29979"},
		{Code: "29980"},
	}}
	course.SortSections()

	want := []string{"29979", "29980", "29981"}
	for i, w := range want {
		if course.Sections[i].Code != w {
			t.Fatalf("Sections[%d].Code = %s, want %s", i, course.Sections[i].Code, w)
		}
	}

	if got := course.SectionByCode("29980"); got == nil || got.Code != "29980" {
		t.Fatalf("SectionByCode(29980) = %v", got)
	}
	if got := course.SectionByCode("11111"); got != nil {
		t.Fatalf("SectionByCode(11111) = %v, want nil", got)
	}
}
