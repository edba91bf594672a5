// Package tool publishes the dispatcher's operation vocabulary to the
// language-generation front end as tool declarations, and adapts tool calls
// back into dispatched intents. Failures travel in-band so the front end can
// re-prompt the student instead of failing the turn.
package tool

import (
	"context"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/coursepilot/coursepilot/advisor/contract"
	"github.com/coursepilot/coursepilot/advisor/session"
)

// Dispatcher is the operation gateway the executor drives.
type Dispatcher interface {
	Execute(ctx context.Context, sess *session.SessionState, intent contractx.Intent) contractx.Result
}

type Executor func(ctx context.Context, sess *session.SessionState, tool string, args map[string]any) (contractx.ToolResult, error)

// Infos declares every schedule operation for tool-calling models. The
// descriptions are the contract: the model picks an operation by matching
// the student's request against them.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: string(contractx.OpLookupDepartments),
			Desc: "List every department offering classes this term, with codes and names.",
		},
		{
			Name: string(contractx.OpLookupCourses),
			Desc: "List all courses a department offers this term, with titles, units, and descriptions.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"department": {Type: schema.String, Desc: "Department code or name, e.g. \"CSCI\" or \"Computer Science\"", Required: true},
			}),
		},
		{
			Name: string(contractx.OpLookupSections),
			Desc: "List the offered sections of one course: meeting times, instructor, and open seats.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"course_id": {Type: schema.String, Desc: "Course code, e.g. \"CSCI 170\"", Required: true},
			}),
		},
		{
			Name: string(contractx.OpGetEnrollmentLoad),
			Desc: "Report the current unit load, time conflicts, and unmet prerequisites of the schedule.",
		},
		{
			Name: string(contractx.OpAddSection),
			Desc: "Add a section to the schedule. A course code with several sections needs a selection rule or an exact section code.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"identifier": {Type: schema.String, Desc: "Section code (e.g. \"29979\") or course code (e.g. \"CSCI 170\")", Required: true},
				"selection_rule": {Type: schema.String, Desc: "How to pick among several sections: \"first-by-code\", \"first-open\", or an exact section code",
					Enum: []string{string(contractx.RuleFirstByCode), string(contractx.RuleFirstOpen)}},
			}),
		},
		{
			Name: string(contractx.OpRemoveSection),
			Desc: "Remove a section from the schedule by its section code.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"section_id": {Type: schema.String, Desc: "Section code to remove", Required: true},
			}),
		},
		{
			Name: string(contractx.OpGetSchedule),
			Desc: "Show the current schedule: accepted sections in order, with the unit total.",
		},
	}
}

// NewExecutor adapts tool calls into dispatched intents. Dispatch failures
// come back through ToolResult.Error; the error return is reserved for a
// broken executor contract, which cannot happen here.
func NewExecutor(dispatcher Dispatcher) Executor {
	return func(ctx context.Context, sess *session.SessionState, tool string, args map[string]any) (contractx.ToolResult, error) {
		result := dispatcher.Execute(ctx, sess, contractx.Intent{
			Operation: contractx.Operation(tool),
			Args:      args,
		})

		if !result.OK() {
			return contractx.ToolResult{
				Tool:   tool,
				Result: result.Payload,
				Error:  result.Error,
			}, nil
		}
		return contractx.ToolResult{
			Tool:   tool,
			Result: result,
		}, nil
	}
}
