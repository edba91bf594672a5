// Package validate computes advisory signals over a candidate schedule:
// meeting-time conflicts, unit load against a ceiling, and unmet
// prerequisites. Checks are pure and deterministic; findings are warnings
// for the caller to weigh, never hard failures.
package validate

import (
	"fmt"

	"github.com/coursepilot/coursepilot/advisor/catalog"
	contractx "github.com/coursepilot/coursepilot/advisor/contract"
)

// DefaultUnitCeiling is the advisory unit-load ceiling used when the caller
// configures none.
const DefaultUnitCeiling = 18.0

type Config struct {
	UnitCeiling float64
}

func (c Config) ceiling() float64 {
	if c.UnitCeiling > 0 {
		return c.UnitCeiling
	}
	return DefaultUnitCeiling
}

// Conflict is one pair of sections with at least one overlapping meeting
// slot. Pairs are reported once, in schedule order.
type Conflict struct {
	A *catalog.Section `json:"a"`
	B *catalog.Section `json:"b"`
}

// UnmetPrereq reports a course whose prerequisite expression is not
// satisfied by the completed-courses set.
type UnmetPrereq struct {
	Course catalog.CourseID `json:"course"`
	Expr   string           `json:"expr"`
}

// Result is the full validation outcome. The unit total is recomputed from
// the given sections on every call, never carried over.
type Result struct {
	Conflicts    []Conflict    `json:"conflicts,omitempty"`
	UnitTotal    float64       `json:"unit_total"`
	UnitCeiling  float64       `json:"unit_ceiling"`
	Overloaded   bool          `json:"overloaded"`
	UnmetPrereqs []UnmetPrereq `json:"unmet_prereqs,omitempty"`
}

// Check validates a candidate schedule. prereqs maps each course to its
// prerequisite expression (nil entries and absent courses mean none);
// completed is the caller-supplied set of finished courses. An empty
// candidate validates clean.
func Check(
	sections []*catalog.Section,
	prereqs map[catalog.CourseID]*catalog.PrereqExpr,
	completed map[catalog.CourseID]struct{},
	cfg Config,
) Result {
	result := Result{UnitCeiling: cfg.ceiling()}

	for i := 0; i < len(sections); i++ {
		for j := i + 1; j < len(sections); j++ {
			if sections[i].ConflictsWith(sections[j]) {
				result.Conflicts = append(result.Conflicts, Conflict{A: sections[i], B: sections[j]})
			}
		}
	}

	seen := make(map[catalog.CourseID]struct{}, len(sections))
	for _, s := range sections {
		result.UnitTotal += s.Units.Load()

		if _, dup := seen[s.Course]; dup {
			continue
		}
		seen[s.Course] = struct{}{}

		expr, ok := prereqs[s.Course]
		if !ok || expr == nil {
			continue
		}
		if !expr.Satisfied(completed) {
			result.UnmetPrereqs = append(result.UnmetPrereqs, UnmetPrereq{
				Course: s.Course,
				Expr:   expr.String(),
			})
		}
	}

	result.Overloaded = result.UnitTotal > result.UnitCeiling
	return result
}

// Warnings renders the findings as advisory warnings for a dispatch result.
func (r Result) Warnings() []contractx.Warning {
	var warnings []contractx.Warning
	for _, c := range r.Conflicts {
		warnings = append(warnings, contractx.Warning{
			Code: contractx.WarnTimeConflict,
			Message: fmt.Sprintf("%s (%s) overlaps %s (%s)",
				c.A.Course, c.A.Code, c.B.Course, c.B.Code),
		})
	}
	if r.Overloaded {
		warnings = append(warnings, contractx.Warning{
			Code:    contractx.WarnUnitOverload,
			Message: fmt.Sprintf("unit load %.1f exceeds the %.1f-unit ceiling", r.UnitTotal, r.UnitCeiling),
		})
	}
	for _, u := range r.UnmetPrereqs {
		warnings = append(warnings, contractx.Warning{
			Code:    contractx.WarnUnmetPrereq,
			Message: fmt.Sprintf("%s requires %s", u.Course, u.Expr),
		})
	}
	return warnings
}
