package contract

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSourceUnavailable  = errors.New("class data source unavailable")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrAmbiguousCourse    = errors.New("course has multiple sections")
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrValidation         = errors.New("validation failed")
)

// AmbiguousCourseError reports the full candidate list so the caller can
// supply a selection rule on the next attempt. Candidates are sorted by
// section code.
type AmbiguousCourseError struct {
	CourseID   string
	Candidates []string
}

func (e *AmbiguousCourseError) Error() string {
	return fmt.Sprintf("%v: %s offers sections [%s]", ErrAmbiguousCourse, e.CourseID, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousCourseError) Unwrap() error {
	return ErrAmbiguousCourse
}
