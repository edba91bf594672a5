package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coursepilot/coursepilot/advisor/catalog"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, time.August, 20, 10, 0, 0, 0, time.UTC)

	st := NewSessionState("session-1", "student-7", "20253", now)
	st.Schedule.Add(&catalog.Section{
		Code:   "29979",
		Course: catalog.CourseID{Department: "CSCI", Number: "170"},
		Units:  catalog.Units{Min: 4, Max: 4},
	}, now)
	st.MarkCompleted(catalog.CourseID{Department: "CSCI", Number: "103"})

	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.SessionID != "session-1" || loaded.Term != "20253" {
		t.Fatalf("loaded identity = %s/%s", loaded.SessionID, loaded.Term)
	}
	if !loaded.Schedule.Contains("29979") {
		t.Fatal("loaded schedule lost its section")
	}
	if _, ok := loaded.CompletedSet()[catalog.CourseID{Department: "CSCI", Number: "103"}]; !ok {
		t.Fatal("loaded state lost completed courses")
	}
}

func TestMemoryStoreCopiesOnSave(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	st := NewSessionState("session-1", "", "20253", now)
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Mutations after Save must not leak into the stored copy.
	st.Schedule.Add(&catalog.Section{Code: "29979"}, now)

	loaded, err := store.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Schedule.Contains("29979") {
		t.Fatal("stored state aliases the caller's schedule")
	}
}

func TestMemoryStoreLoadMissing(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	_, err := store.Load(context.Background(), "absent")
	if !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() error = %v, want ErrStateNotFound", err)
	}

	_, err = store.Load(context.Background(), "   ")
	if !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Load(blank) error = %v, want ErrInvalidSession", err)
	}
}

func TestMemoryStoreSaveRejectsInvalidState(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, nil); !errors.Is(err, ErrNilSessionState) {
		t.Fatalf("Save(nil) error = %v, want ErrNilSessionState", err)
	}
	if err := store.Save(ctx, &SessionState{}); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Save(no id) error = %v, want ErrInvalidSession", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	st := NewSessionState("session-1", "", "20253", time.Now())
	if err := store.Save(ctx, st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(ctx, "session-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "session-1"); !errors.Is(err, ErrStateNotFound) {
		t.Fatalf("Load() after delete = %v, want ErrStateNotFound", err)
	}
}

func TestSessionStateValidate(t *testing.T) {
	t.Parallel()

	var nilState *SessionState
	if err := nilState.Validate(); !errors.Is(err, ErrNilSessionState) {
		t.Fatalf("Validate(nil) = %v, want ErrNilSessionState", err)
	}
	if err := (&SessionState{Term: "20253"}).Validate(); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("Validate(no id) = %v, want ErrInvalidSession", err)
	}
	if err := (&SessionState{SessionID: "s"}).Validate(); err == nil {
		t.Fatal("Validate(no term) expected error")
	}
	if err := NewSessionState("s", "", "20253", time.Now()).Validate(); err != nil {
		t.Fatalf("Validate(valid) = %v", err)
	}
}

func TestMarkCompletedDeduplicates(t *testing.T) {
	t.Parallel()

	st := NewSessionState("s", "", "20253", time.Now())
	id := catalog.CourseID{Department: "CSCI", Number: "103"}
	st.MarkCompleted(id)
	st.MarkCompleted(id)

	if len(st.Completed) != 1 {
		t.Fatalf("len(Completed) = %d, want 1", len(st.Completed))
	}
	if _, ok := st.CompletedSet()[id]; !ok {
		t.Fatal("CompletedSet() missing the marked course")
	}
}
