package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/coursepilot/coursepilot/advisor/catalog"
)

func section(code string, units float64) *catalog.Section {
	return &catalog.Section{
		Code:   code,
		Course: catalog.CourseID{Department: "CSCI", Number: "170"},
		Units:  catalog.Units{Min: units, Max: units},
	}
}

func TestAddAndContains(t *testing.T) {
	t.Parallel()

	s := New()
	now := time.Now()

	if !s.Add(section("29979", 4), now) {
		t.Fatal("Add() = false for a new section")
	}
	if !s.Contains("29979") || s.Len() != 1 {
		t.Fatalf("Contains/Len after add = %v/%d", s.Contains("29979"), s.Len())
	}
}

func TestReAddIsNoOp(t *testing.T) {
	t.Parallel()

	s := New()
	now := time.Now()
	s.Add(section("29979", 4), now)

	if s.Add(section("29979", 4), now.Add(time.Minute)) {
		t.Fatal("re-adding the same section must be a no-op")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestAddRejectsInvalidSection(t *testing.T) {
	t.Parallel()

	s := New()
	if s.Add(nil, time.Now()) {
		t.Fatal("Add(nil) must not change the schedule")
	}
	if s.Add(&catalog.Section{}, time.Now()) {
		t.Fatal("Add(codeless section) must not change the schedule")
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	s := New()
	now := time.Now()
	s.Add(section("29979", 4), now)
	s.Add(section("29980", 4), now)

	if !s.Remove("29979") {
		t.Fatal("Remove() = false for a present section")
	}
	if s.Contains("29979") || s.Len() != 1 {
		t.Fatalf("schedule after remove: contains=%v len=%d", s.Contains("29979"), s.Len())
	}

	if s.Remove("11111") {
		t.Fatal("removing an absent section must be a no-op")
	}
}

func TestEntriesKeepInsertionOrder(t *testing.T) {
	t.Parallel()

	s := New()
	now := time.Now()
	s.Add(section("29980", 4), now)
	s.Add(section("29979", 4), now.Add(time.Second))

	entries := s.Entries()
	if len(entries) != 2 || entries[0].Section.Code != "29980" || entries[1].Section.Code != "29979" {
		t.Fatalf("Entries() order = %v", entries)
	}

	// Entries returns a copy; mutating it leaves the schedule intact.
	entries[0] = Entry{}
	if !s.Contains("29980") {
		t.Fatal("mutating the returned slice changed the schedule")
	}
}

func TestUnitTotal(t *testing.T) {
	t.Parallel()

	s := New()
	now := time.Now()
	s.Add(section("1", 4), now)
	s.Add(section("2", 2), now)

	if got := s.UnitTotal(); got != 6 {
		t.Fatalf("UnitTotal() = %v, want 6", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	s := New()
	now := time.Now()
	s.Add(section("29979", 4), now)

	clone := s.Clone()
	clone.Add(section("29980", 4), now)

	if s.Len() != 1 {
		t.Fatalf("original Len() = %d after clone mutation, want 1", s.Len())
	}
	if clone.Len() != 2 {
		t.Fatalf("clone Len() = %d, want 2", clone.Len())
	}

	var nilSchedule *Schedule
	if got := nilSchedule.Clone(); got == nil || got.Len() != 0 {
		t.Fatalf("Clone() of nil = %v", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	s := New()
	now := time.Date(2025, time.August, 20, 10, 0, 0, 0, time.UTC)
	s.Add(section("29979", 4), now)
	s.Add(section("29903", 2), now)

	payload, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	restored := New()
	if err := json.Unmarshal(payload, restored); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if restored.Len() != 2 || !restored.Contains("29979") || !restored.Contains("29903") {
		t.Fatalf("round-trip lost entries: len=%d", restored.Len())
	}
	if got := restored.Entries()[0].AddedAt; !got.Equal(now) {
		t.Fatalf("AddedAt = %v, want %v", got, now)
	}
	if got := restored.UnitTotal(); got != 6 {
		t.Fatalf("UnitTotal() after round-trip = %v, want 6", got)
	}
}
