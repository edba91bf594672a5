// Package dispatch turns structured intents from the generation front end
// into sequenced calls against the resolver, cache, validator, and session
// schedule. The operation set is closed: anything outside the table is
// rejected at the boundary. Mutations are staged on a copy of the schedule
// and committed only after validation, so a failed step changes nothing.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	"github.com/coursepilot/coursepilot/advisor/catalog"
	contractx "github.com/coursepilot/coursepilot/advisor/contract"
	"github.com/coursepilot/coursepilot/advisor/resolve"
	"github.com/coursepilot/coursepilot/advisor/schedule"
	"github.com/coursepilot/coursepilot/advisor/session"
	"github.com/coursepilot/coursepilot/advisor/validate"
)

type Config struct {
	UnitCeiling float64
}

type Dispatcher struct {
	cache    *catalog.Cache
	resolver *resolve.Resolver
	cfg      validate.Config
	now      func() time.Time

	addRunner compose.Runnable[*addState, addOutcome]
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the dispatcher's time source.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

func New(cache *catalog.Cache, resolver *resolve.Resolver, cfg Config, opts ...Option) (*Dispatcher, error) {
	if cache == nil {
		return nil, errors.New("catalog cache is required")
	}
	if resolver == nil {
		return nil, errors.New("resolver is required")
	}

	d := &Dispatcher{
		cache:    cache,
		resolver: resolver,
		cfg:      validate.Config{UnitCeiling: cfg.UnitCeiling},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	addRunner, err := d.compileAddSectionGraph(context.Background())
	if err != nil {
		return nil, err
	}
	d.addRunner = addRunner

	return d, nil
}

// SchedulePayload is the response shape of get_schedule.
type SchedulePayload struct {
	Entries   []schedule.Entry `json:"entries"`
	UnitTotal float64          `json:"unit_total"`
}

// AddSectionPayload is the response shape of add_section. Validation covers
// the schedule as committed, including the new section.
type AddSectionPayload struct {
	Section    *catalog.Section `json:"section"`
	Added      bool             `json:"added"`
	Validation validate.Result  `json:"validation"`
}

// RemoveSectionPayload is the response shape of remove_section.
type RemoveSectionPayload struct {
	SectionID  string          `json:"section_id"`
	Removed    bool            `json:"removed"`
	Validation validate.Result `json:"validation"`
}

// Execute runs one operation against one session. The outcome is always a
// tagged result; typed failures are encoded, never propagated as panics.
func (d *Dispatcher) Execute(ctx context.Context, sess *session.SessionState, intent contractx.Intent) (result contractx.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Str("operation", string(intent.Operation)).Msg("dispatch panicked")
			result = failure(intent.Operation, fmt.Errorf("%w: internal error", contractx.ErrValidation))
		}
	}()

	if sess == nil {
		return failure(intent.Operation, fmt.Errorf("%w: session is required", contractx.ErrValidation))
	}
	sess.EnsureSchedule()

	log.Debug().Str("operation", string(intent.Operation)).Str("session", sess.SessionID).Msg("dispatch")

	switch intent.Operation {
	case contractx.OpLookupDepartments:
		return d.lookupDepartments(ctx, intent)
	case contractx.OpLookupCourses:
		return d.lookupCourses(ctx, intent)
	case contractx.OpLookupSections:
		return d.lookupSections(ctx, intent)
	case contractx.OpGetEnrollmentLoad:
		return d.enrollmentLoad(ctx, sess, intent)
	case contractx.OpAddSection:
		return d.addSection(ctx, sess, intent)
	case contractx.OpRemoveSection:
		return d.removeSection(ctx, sess, intent)
	case contractx.OpGetSchedule:
		return d.getSchedule(sess, intent)
	default:
		return failure(intent.Operation, fmt.Errorf("%w: %q", contractx.ErrUnknownOperation, intent.Operation))
	}
}

func (d *Dispatcher) lookupDepartments(ctx context.Context, intent contractx.Intent) contractx.Result {
	departments, stale, err := d.cache.Departments(ctx)
	if err != nil {
		return failure(intent.Operation, err)
	}
	return success(intent.Operation, departments, staleWarnings(stale))
}

func (d *Dispatcher) lookupCourses(ctx context.Context, intent contractx.Intent) contractx.Result {
	dept, err := stringArg(intent.Args, "department")
	if err != nil {
		return failure(intent.Operation, err)
	}

	courses, stale, err := d.cache.Courses(ctx, dept)
	if err != nil {
		return failure(intent.Operation, err)
	}
	return success(intent.Operation, courses, staleWarnings(stale))
}

func (d *Dispatcher) lookupSections(ctx context.Context, intent contractx.Intent) contractx.Result {
	raw, err := stringArg(intent.Args, "course_id")
	if err != nil {
		return failure(intent.Operation, err)
	}

	courseID, ok := catalog.ParseCourseID(raw)
	if !ok {
		return failure(intent.Operation, fmt.Errorf("%w: %q is not a course code", contractx.ErrCourseNotFound, raw))
	}

	sections, stale, err := d.cache.Sections(ctx, courseID)
	if err != nil {
		return failure(intent.Operation, err)
	}
	return success(intent.Operation, sections, staleWarnings(stale))
}

func (d *Dispatcher) enrollmentLoad(ctx context.Context, sess *session.SessionState, intent contractx.Intent) contractx.Result {
	checked := d.check(ctx, sess.Schedule, sess)
	return success(intent.Operation, checked, checked.Warnings())
}

func (d *Dispatcher) addSection(ctx context.Context, sess *session.SessionState, intent contractx.Intent) contractx.Result {
	identifier, err := stringArg(intent.Args, "identifier")
	if err != nil {
		return failure(intent.Operation, err)
	}
	rule := contractx.SelectionRule(optionalStringArg(intent.Args, "selection_rule"))

	out, err := d.addRunner.Invoke(ctx, &addState{
		sess:       sess,
		identifier: identifier,
		rule:       rule,
		now:        d.now(),
	})
	if err != nil {
		return failure(intent.Operation, err)
	}
	return success(intent.Operation, out.payload, out.warnings)
}

func (d *Dispatcher) removeSection(ctx context.Context, sess *session.SessionState, intent contractx.Intent) contractx.Result {
	sectionID, err := stringArg(intent.Args, "section_id")
	if err != nil {
		return failure(intent.Operation, err)
	}

	removed := sess.Schedule.Remove(sectionID)
	if removed {
		sess.Version++
		sess.Touch(d.now())
	}

	checked := d.check(ctx, sess.Schedule, sess)
	payload := RemoveSectionPayload{
		SectionID:  sectionID,
		Removed:    removed,
		Validation: checked,
	}
	return success(intent.Operation, payload, checked.Warnings())
}

func (d *Dispatcher) getSchedule(sess *session.SessionState, intent contractx.Intent) contractx.Result {
	payload := SchedulePayload{
		Entries:   sess.Schedule.Entries(),
		UnitTotal: sess.Schedule.UnitTotal(),
	}
	return success(intent.Operation, payload, nil)
}

// check validates a schedule against the session's completed courses,
// collecting prerequisite expressions from already-cached course records.
func (d *Dispatcher) check(ctx context.Context, sched *schedule.Schedule, sess *session.SessionState) validate.Result {
	sections := sched.Sections()

	prereqs := make(map[catalog.CourseID]*catalog.PrereqExpr, len(sections))
	for _, s := range sections {
		if _, seen := prereqs[s.Course]; seen {
			continue
		}
		course, _, err := d.cache.Course(ctx, s.Course)
		if err != nil {
			// A section already accepted into the schedule stays checkable
			// for conflicts and units even if its course record is gone.
			log.Debug().Err(err).Str("course", s.Course.String()).Msg("prerequisite lookup skipped")
			prereqs[s.Course] = nil
			continue
		}
		prereqs[s.Course] = course.Prereq
	}

	return validate.Check(sections, prereqs, sess.CompletedSet(), d.cfg)
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%w: argument %q is required", contractx.ErrValidation, key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: argument %q must be a string", contractx.ErrValidation, key)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: argument %q is empty", contractx.ErrValidation, key)
	}
	return value, nil
}

func optionalStringArg(args map[string]any, key string) string {
	if raw, ok := args[key]; ok {
		if value, ok := raw.(string); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func staleWarnings(stale bool) []contractx.Warning {
	if !stale {
		return nil
	}
	return []contractx.Warning{{
		Code:    contractx.WarnStaleData,
		Message: "class data source is unreachable, serving cached data past its refresh window",
	}}
}

func success(op contractx.Operation, payload any, warnings []contractx.Warning) contractx.Result {
	return contractx.Result{
		Operation: op,
		Status:    contractx.StatusOK,
		Payload:   payload,
		Warnings:  warnings,
	}
}

func failure(op contractx.Operation, err error) contractx.Result {
	result := contractx.Result{
		Operation: op,
		Status:    contractx.StatusError,
		ErrorCode: errorCode(err),
		Error:     err.Error(),
	}

	var ambiguous *contractx.AmbiguousCourseError
	if errors.As(err, &ambiguous) {
		result.Payload = map[string]any{
			"course_id":  ambiguous.CourseID,
			"candidates": ambiguous.Candidates,
		}
	}
	return result
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, contractx.ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, contractx.ErrDepartmentNotFound):
		return "department_not_found"
	case errors.Is(err, contractx.ErrCourseNotFound):
		return "course_not_found"
	case errors.Is(err, contractx.ErrAmbiguousCourse):
		return "ambiguous_course"
	case errors.Is(err, contractx.ErrSectionNotFound):
		return "section_not_found"
	case errors.Is(err, contractx.ErrUnknownOperation):
		return "unknown_operation"
	default:
		return "validation_failed"
	}
}
