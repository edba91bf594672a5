package tool

import (
	"context"
	"testing"
	"time"

	contractx "github.com/coursepilot/coursepilot/advisor/contract"
	"github.com/coursepilot/coursepilot/advisor/session"
)

type fakeDispatcher struct {
	lastIntent contractx.Intent
	result     contractx.Result
}

func (f *fakeDispatcher) Execute(ctx context.Context, sess *session.SessionState, intent contractx.Intent) contractx.Result {
	f.lastIntent = intent
	f.result.Operation = intent.Operation
	return f.result
}

func TestInfosCoverEveryOperation(t *testing.T) {
	t.Parallel()

	infos := Infos()
	operations := contractx.Operations()
	if len(infos) != len(operations) {
		t.Fatalf("len(Infos()) = %d, want %d", len(infos), len(operations))
	}
	for i, op := range operations {
		if infos[i].Name != string(op) {
			t.Fatalf("Infos()[%d].Name = %s, want %s", i, infos[i].Name, op)
		}
		if infos[i].Desc == "" {
			t.Fatalf("Infos()[%d] has no description", i)
		}
	}
}

func TestExecutorSuccess(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{result: contractx.Result{
		Status:  contractx.StatusOK,
		Payload: "payload",
	}}
	executor := NewExecutor(dispatcher)

	sess := session.NewSessionState("s", "", "20253", time.Now())
	out, err := executor(context.Background(), sess, string(contractx.OpGetSchedule), map[string]any{"k": "v"})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	if out.Tool != string(contractx.OpGetSchedule) || out.Error != "" {
		t.Fatalf("ToolResult = %+v", out)
	}
	result, ok := out.Result.(contractx.Result)
	if !ok || result.Payload != "payload" {
		t.Fatalf("Result = %#v", out.Result)
	}

	if dispatcher.lastIntent.Operation != contractx.OpGetSchedule {
		t.Fatalf("dispatched operation = %s", dispatcher.lastIntent.Operation)
	}
	if dispatcher.lastIntent.Args["k"] != "v" {
		t.Fatalf("dispatched args = %v", dispatcher.lastIntent.Args)
	}
}

func TestExecutorFailureTravelsInBand(t *testing.T) {
	t.Parallel()

	dispatcher := &fakeDispatcher{result: contractx.Result{
		Status:    contractx.StatusError,
		ErrorCode: "ambiguous_course",
		Error:     "course has multiple sections",
		Payload:   map[string]any{"candidates": []string{"29979", "29980"}},
	}}
	executor := NewExecutor(dispatcher)

	sess := session.NewSessionState("s", "", "20253", time.Now())
	out, err := executor(context.Background(), sess, string(contractx.OpAddSection), map[string]any{"identifier": "CSCI 170"})
	if err != nil {
		t.Fatalf("executor error = %v", err)
	}
	if out.Error == "" {
		t.Fatal("expected in-band error")
	}
	payload, ok := out.Result.(map[string]any)
	if !ok || payload["candidates"] == nil {
		t.Fatalf("failure payload = %#v, want candidates for re-prompting", out.Result)
	}
}
