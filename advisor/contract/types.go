// Package contract defines the shared vocabulary between the schedule core
// and the language-generation front end: the closed operation set, the intent
// and result shapes, and the error taxonomy. The front end derives intents
// from free text; the core re-validates them here and never parses text
// itself.
package contract

type Operation string

const (
	OpLookupDepartments Operation = "lookup_departments"
	OpLookupCourses     Operation = "lookup_courses"
	OpLookupSections    Operation = "lookup_sections"
	OpGetEnrollmentLoad Operation = "get_enrollment_load"
	OpAddSection        Operation = "add_section"
	OpRemoveSection     Operation = "remove_section"
	OpGetSchedule       Operation = "get_schedule"
)

// Operations lists every operation the dispatcher accepts, in the order they
// are published to the front end.
func Operations() []Operation {
	return []Operation{
		OpLookupDepartments,
		OpLookupCourses,
		OpLookupSections,
		OpGetEnrollmentLoad,
		OpAddSection,
		OpRemoveSection,
		OpGetSchedule,
	}
}

// Intent is a structured request produced by the front end. Args are loosely
// typed on the wire; the dispatcher re-validates them per operation.
type Intent struct {
	Operation Operation      `json:"operation"`
	Args      map[string]any `json:"args,omitempty"`
}

// SelectionRule collapses an ambiguous course to a single section. Rules must
// be total and deterministic: resolving the same inputs twice yields the same
// section.
type SelectionRule string

const (
	// RuleNone requires the identifier itself to be unambiguous.
	RuleNone SelectionRule = ""
	// RuleFirstByCode picks the lexically smallest section code.
	RuleFirstByCode SelectionRule = "first-by-code"
	// RuleFirstOpen picks the lexically smallest section code with seats
	// remaining.
	RuleFirstOpen SelectionRule = "first-open"
)

type WarningCode string

const (
	WarnTimeConflict WarningCode = "time_conflict"
	WarnUnitOverload WarningCode = "unit_overload"
	WarnUnmetPrereq  WarningCode = "unmet_prerequisite"
	WarnStaleData    WarningCode = "stale_data"
)

// Warning is an advisory finding attached to an otherwise successful result.
// Warnings never block the operation that produced them.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Result is the tagged outcome of one dispatched operation. Exactly one of
// Payload (StatusOK) or ErrorCode/Error (StatusError) is meaningful.
type Result struct {
	Operation Operation `json:"operation"`
	Status    Status    `json:"status"`
	Payload   any       `json:"payload,omitempty"`
	Warnings  []Warning `json:"warnings,omitempty"`
	ErrorCode string    `json:"error_code,omitempty"`
	Error     string    `json:"error,omitempty"`
}

func (r Result) OK() bool {
	return r.Status == StatusOK
}

// ToolRequest is one tool call as emitted by the front end's model.
type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult carries a tool outcome back to the front end. Failures travel
// in-band through Error so the model can re-prompt instead of crashing the
// turn.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}
