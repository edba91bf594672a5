package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/coursepilot/coursepilot/advisor/contract"
	"github.com/coursepilot/coursepilot/advisor/resolve"
	"github.com/coursepilot/coursepilot/advisor/schedule"
	"github.com/coursepilot/coursepilot/advisor/session"
	"github.com/coursepilot/coursepilot/advisor/validate"
)

// addState carries one add-section mutation through the pipeline. The live
// schedule is untouched until commit.
type addState struct {
	sess       *session.SessionState
	identifier string
	rule       contractx.SelectionRule
	now        time.Time

	resolution resolve.Resolution
	staged     *schedule.Schedule
	added      bool
	checked    validate.Result
}

type addOutcome struct {
	payload  AddSectionPayload
	warnings []contractx.Warning
}

// compileAddSectionGraph builds the mutation pipeline: resolve the
// identifier to one section, stage it on a copy of the schedule, validate
// the candidate, commit, then shape the response. Either every step
// succeeds and the commit lands whole, or the schedule is left as it was.
func (d *Dispatcher) compileAddSectionGraph(
	ctx context.Context,
) (compose.Runnable[*addState, addOutcome], error) {
	graph := compose.NewGraph[*addState, addOutcome]()

	if err := graph.AddLambdaNode("resolve_section",
		compose.InvokableLambda(func(ctx context.Context, in *addState) (*addState, error) {
			return d.resolveSection(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node resolve_section: %w", err)
	}

	if err := graph.AddLambdaNode("stage_entry",
		compose.InvokableLambda(func(ctx context.Context, in *addState) (*addState, error) {
			return stageEntry(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node stage_entry: %w", err)
	}

	if err := graph.AddLambdaNode("validate_candidate",
		compose.InvokableLambda(func(ctx context.Context, in *addState) (*addState, error) {
			return d.validateCandidate(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_candidate: %w", err)
	}

	if err := graph.AddLambdaNode("commit",
		compose.InvokableLambda(func(ctx context.Context, in *addState) (*addState, error) {
			return commit(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node commit: %w", err)
	}

	if err := graph.AddLambdaNode("finalize",
		compose.InvokableLambda(func(ctx context.Context, in *addState) (addOutcome, error) {
			return finalize(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize: %w", err)
	}

	edges := [][2]string{
		{compose.START, "resolve_section"},
		{"resolve_section", "stage_entry"},
		{"stage_entry", "validate_candidate"},
		{"validate_candidate", "commit"},
		{"commit", "finalize"},
		{"finalize", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("dispatch.add_section"))
	if err != nil {
		return nil, fmt.Errorf("compile add-section graph: %w", err)
	}
	return runner, nil
}

func (d *Dispatcher) resolveSection(ctx context.Context, in *addState) (*addState, error) {
	if in == nil || in.sess == nil {
		return nil, fmt.Errorf("%w: add state is incomplete", contractx.ErrValidation)
	}

	resolution, err := d.resolver.Resolve(ctx, in.identifier, in.rule)
	if err != nil {
		return nil, err
	}
	in.resolution = resolution
	return in, nil
}

func stageEntry(in *addState) (*addState, error) {
	in.staged = in.sess.Schedule.Clone()
	in.added = in.staged.Add(in.resolution.Section, in.now)
	return in, nil
}

func (d *Dispatcher) validateCandidate(ctx context.Context, in *addState) (*addState, error) {
	in.checked = d.check(ctx, in.staged, in.sess)
	return in, nil
}

func commit(in *addState) (*addState, error) {
	if in.added {
		in.sess.Schedule = in.staged
		in.sess.Version++
		in.sess.Touch(in.now)
	}
	return in, nil
}

func finalize(in *addState) (addOutcome, error) {
	warnings := in.checked.Warnings()
	if in.resolution.Stale {
		warnings = append(staleWarnings(true), warnings...)
	}
	return addOutcome{
		payload: AddSectionPayload{
			Section:    in.resolution.Section,
			Added:      in.added,
			Validation: in.checked,
		},
		warnings: warnings,
	}, nil
}
