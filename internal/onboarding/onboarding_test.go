package onboarding

import (
	"errors"
	"testing"

	"github.com/plankhq/plank/internal/session"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name          string
		local, server int
		want          int
	}{
		{"both zero", 0, 0, 0},
		{"local ahead of stale server", 3, 1, 3},
		{"server ahead from another session", 1, 3, 3},
		{"equal", 2, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Merge(tt.local, tt.server); got != tt.want {
				t.Errorf("Merge(%d, %d) = %d, want %d", tt.local, tt.server, got, tt.want)
			}
		})
	}
}

func TestAdvanceIsOptimistic(t *testing.T) {
	f := New(DefaultSteps(), session.NewMemStore())

	if err := f.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if f.Current() != 1 {
		t.Errorf("Current = %d, want 1 before any server sync", f.Current())
	}
	if f.Steps()[0].Status != StepCompleted {
		t.Errorf("step 0 status = %s", f.Steps()[0].Status)
	}

	// A stale server read (still reporting step 0) must not snap back
	f.SyncFromServer(0)
	if f.Current() != 1 {
		t.Errorf("stale server sync snapped back to %d", f.Current())
	}

	// The confirming sync changes nothing visible
	f.SyncFromServer(1)
	if f.Current() != 1 {
		t.Errorf("Current = %d after confirmation", f.Current())
	}
}

func TestServerAheadAdoptsServerIndex(t *testing.T) {
	f := New(DefaultSteps(), session.NewMemStore())
	f.SyncFromServer(3)
	if f.Current() != 3 {
		t.Errorf("Current = %d, want 3", f.Current())
	}
}

func TestSkipMarksStepSkipped(t *testing.T) {
	f := New(DefaultSteps(), session.NewMemStore())
	if err := f.Skip(); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if got := f.Steps()[0].Status; got != StepSkipped {
		t.Errorf("step 0 status = %s, want skipped", got)
	}
}

func TestCompletionFiresOnceAndPersists(t *testing.T) {
	store := session.NewMemStore()
	f := New(DefaultSteps(), store)

	for i := 0; i < len(DefaultSteps()); i++ {
		if err := f.Advance(); err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
	}
	if !f.Completed() {
		t.Fatal("flow should be completed")
	}

	if err := f.Advance(); !errors.Is(err, ErrFlowCompleted) {
		t.Errorf("advance past terminal state = %v, want ErrFlowCompleted", err)
	}

	flag, err := store.Get(session.KeyOnboardingDismissed)
	if err != nil || flag != "true" {
		t.Errorf("dismissal flag = %q, %v", flag, err)
	}

	// A fresh flow over the same store starts dismissed
	again := New(DefaultSteps(), store)
	if !again.Completed() {
		t.Error("persisted dismissal flag should disable the walkthrough")
	}
}

func TestDismissEndsFlowEarly(t *testing.T) {
	store := session.NewMemStore()
	f := New(DefaultSteps(), store)
	if err := f.Dismiss(); err != nil {
		t.Fatalf("Dismiss: %v", err)
	}
	if !f.Completed() {
		t.Error("dismissed flow should be terminal")
	}
	if err := f.Skip(); !errors.Is(err, ErrFlowCompleted) {
		t.Errorf("Skip after dismiss = %v", err)
	}
}

func TestSyncFromServerPastEndCompletes(t *testing.T) {
	store := session.NewMemStore()
	f := New(DefaultSteps(), store)
	f.SyncFromServer(len(DefaultSteps()))
	if !f.Completed() {
		t.Error("server reporting all steps done should complete the flow")
	}
}
