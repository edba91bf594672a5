// Package schedule holds a student's in-progress set of accepted sections.
// The container keeps insertion order, is unique by section code, and is
// only mutated through dispatcher-mediated operations.
package schedule

import (
	"encoding/json"
	"time"

	"github.com/coursepilot/coursepilot/advisor/catalog"
)

// Entry wraps one accepted section. It carries no identity beyond the
// section it wraps.
type Entry struct {
	Section *catalog.Section `json:"section"`
	AddedAt time.Time        `json:"added_at"`
}

type Schedule struct {
	entries []Entry
}

func New() *Schedule {
	return &Schedule{}
}

// Add accepts a section. Re-adding a section already present is a no-op;
// the return reports whether the schedule changed. A different section of
// the same course is allowed; the validator flags the likely overlap.
func (s *Schedule) Add(section *catalog.Section, now time.Time) bool {
	if section == nil || section.Code == "" {
		return false
	}
	if s.Contains(section.Code) {
		return false
	}
	s.entries = append(s.entries, Entry{Section: section, AddedAt: now.UTC()})
	return true
}

// Remove drops a section by code. Removing an absent section is a no-op.
func (s *Schedule) Remove(code string) bool {
	for i, e := range s.entries {
		if e.Section.Code == code {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Schedule) Contains(code string) bool {
	if s == nil {
		return false
	}
	for _, e := range s.entries {
		if e.Section.Code == code {
			return true
		}
	}
	return false
}

func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Entries returns a copy of the accepted entries in insertion order.
func (s *Schedule) Entries() []Entry {
	if s == nil {
		return nil
	}
	return append([]Entry(nil), s.entries...)
}

// Sections returns the accepted sections in insertion order.
func (s *Schedule) Sections() []*catalog.Section {
	if s == nil {
		return nil
	}
	sections := make([]*catalog.Section, 0, len(s.entries))
	for _, e := range s.entries {
		sections = append(sections, e.Section)
	}
	return sections
}

// UnitTotal recomputes the declared unit load from current contents.
func (s *Schedule) UnitTotal() float64 {
	var total float64
	for _, e := range s.Entries() {
		total += e.Section.Units.Load()
	}
	return total
}

// Clone returns a shallow copy sharing section records, which are immutable
// within a cache epoch. Mutations are staged on clones and committed whole.
func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return New()
	}
	return &Schedule{entries: append([]Entry(nil), s.entries...)}
}

func (s *Schedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Entries())
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	s.entries = entries
	return nil
}
