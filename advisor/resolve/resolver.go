// Package resolve maps a loose identifier (section code or course code) to
// exactly one offered section. It never guesses: an ambiguous course without
// a selection rule is an error carrying the candidate list.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coursepilot/coursepilot/advisor/catalog"
	contractx "github.com/coursepilot/coursepilot/advisor/contract"
)

type Resolver struct {
	cache *catalog.Cache
}

func New(cache *catalog.Cache) (*Resolver, error) {
	if cache == nil {
		return nil, errors.New("catalog cache is required")
	}
	return &Resolver{cache: cache}, nil
}

// Resolution is a resolved section plus the freshness of the data behind it.
type Resolution struct {
	Section *catalog.Section
	Stale   bool
}

// Resolve accepts two identifier shapes. An all-digit token is a section
// code, looked up directly against cached departments. Anything else is
// treated as a course code: the course's sections are fetched and the
// selection rule collapses them to one. Rules are total and deterministic
// over the lexical section-code order, so resolving the same inputs twice
// yields the same section.
func (r *Resolver) Resolve(ctx context.Context, identifier string, rule contractx.SelectionRule) (Resolution, error) {
	ident := strings.TrimSpace(identifier)
	if ident == "" {
		return Resolution{}, fmt.Errorf("%w: identifier is empty", contractx.ErrValidation)
	}

	if isDigits(ident) {
		section, ok := r.cache.SectionByCode(ident)
		if !ok {
			return Resolution{}, fmt.Errorf("%w: %s in term %s", contractx.ErrSectionNotFound, ident, r.cache.Term())
		}
		return Resolution{Section: section}, nil
	}

	courseID, ok := catalog.ParseCourseID(ident)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %q is not a course or section code", contractx.ErrCourseNotFound, identifier)
	}

	candidates, stale, err := r.cache.Sections(ctx, courseID)
	if err != nil {
		return Resolution{}, err
	}
	if len(candidates) == 0 {
		return Resolution{}, fmt.Errorf("%w: %s has no offered sections in term %s", contractx.ErrSectionNotFound, courseID, r.cache.Term())
	}

	section, err := pick(candidates, rule, courseID)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Section: section, Stale: stale}, nil
}

// pick applies the selection rule to candidates already sorted by section
// code.
func pick(candidates []*catalog.Section, rule contractx.SelectionRule, courseID catalog.CourseID) (*catalog.Section, error) {
	// An all-digit rule is an explicit section code within the course and
	// binds even when only one section is offered.
	if raw := strings.TrimSpace(string(rule)); isDigits(raw) {
		for _, s := range candidates {
			if s.Code == raw {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%w: %s is not a section of %s", contractx.ErrSectionNotFound, raw, courseID)
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}

	switch rule {
	case contractx.RuleNone:
		codes := make([]string, 0, len(candidates))
		for _, s := range candidates {
			codes = append(codes, s.Code)
		}
		return nil, &contractx.AmbiguousCourseError{CourseID: courseID.String(), Candidates: codes}
	case contractx.RuleFirstByCode:
		return candidates[0], nil
	case contractx.RuleFirstOpen:
		for _, s := range candidates {
			if s.SeatsLeft() > 0 {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%w: every section of %s is full", contractx.ErrSectionNotFound, courseID)
	default:
		return nil, fmt.Errorf("%w: unknown selection rule %q", contractx.ErrValidation, rule)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
