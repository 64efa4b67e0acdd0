// Package onboarding drives the first-run walkthrough: a linear sequence
// of steps, each markable completed or skipped. The locally advanced step
// and the server-confirmed step are kept as two separate indexes and
// reconciled by an explicit merge, so a stale server read can never snap
// the user back to a step they already passed.
package onboarding

import (
	"errors"

	"github.com/plankhq/plank/internal/session"
)

// StepStatus is the state of one walkthrough step
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepCompleted StepStatus = "completed"
	StepSkipped   StepStatus = "skipped"
)

// Step is one named entry in the walkthrough
type Step struct {
	Name   string
	Status StepStatus
}

// ErrFlowCompleted is returned for advances past the terminal state
var ErrFlowCompleted = errors.New("onboarding already completed")

// DefaultSteps is the walkthrough sequence shown to new users
func DefaultSteps() []Step {
	return []Step{
		{Name: "create-project", Status: StepPending},
		{Name: "create-board", Status: StepPending},
		{Name: "create-issue", Status: StepPending},
		{Name: "start-sprint", Status: StepPending},
		{Name: "invite-team", Status: StepPending},
	}
}

// Flow tracks walkthrough progress for one user
type Flow struct {
	steps       []Step
	localIndex  int // optimistic: advanced immediately on user action
	serverIndex int // last index the backend confirmed
	completed   bool

	store session.Store
}

// New builds a flow over the given steps. A persisted dismissal flag in
// the session store puts the flow straight into its terminal state.
func New(steps []Step, store session.Store) *Flow {
	f := &Flow{steps: steps, store: store}
	if store != nil {
		if v, err := store.Get(session.KeyOnboardingDismissed); err == nil && v == "true" {
			f.completed = true
		}
	}
	return f
}

// Merge reconciles the optimistic local index with the server-confirmed
// one. The server only ever confirms progress, so a lower server value is
// a stale read and the local index wins; a higher one means another
// session advanced further and is adopted.
func Merge(local, server int) int {
	if server > local {
		return server
	}
	return local
}

// Current returns the index of the step the user is on
func (f *Flow) Current() int {
	return Merge(f.localIndex, f.serverIndex)
}

// Steps returns the walkthrough steps with their statuses
func (f *Flow) Steps() []Step {
	out := make([]Step, len(f.steps))
	copy(out, f.steps)
	return out
}

// Completed reports whether the flow reached its terminal state
func (f *Flow) Completed() bool {
	return f.completed
}

// Advance marks the current step completed and optimistically moves on
func (f *Flow) Advance() error {
	return f.finishStep(StepCompleted)
}

// Skip marks the current step skipped and optimistically moves on
func (f *Flow) Skip() error {
	return f.finishStep(StepSkipped)
}

func (f *Flow) finishStep(status StepStatus) error {
	if f.completed {
		return ErrFlowCompleted
	}
	cur := f.Current()
	if cur < len(f.steps) {
		f.steps[cur].Status = status
	}
	f.localIndex = cur + 1
	if f.localIndex >= len(f.steps) {
		return f.complete()
	}
	return nil
}

// SyncFromServer records the server-reported step. The current step is
// re-derived by Merge; no cycle-suppression flag is involved.
func (f *Flow) SyncFromServer(index int) {
	if index < 0 {
		index = 0
	}
	f.serverIndex = index
	if f.serverIndex >= len(f.steps) && !f.completed {
		f.complete()
	}
}

// complete fires the terminal state exactly once and persists the
// dismissal flag on this device
func (f *Flow) complete() error {
	if f.completed {
		return nil
	}
	f.completed = true
	if f.store != nil {
		return f.store.Set(session.KeyOnboardingDismissed, "true")
	}
	return nil
}

// Dismiss ends the walkthrough early, persisting the flag like completion
func (f *Flow) Dismiss() error {
	return f.complete()
}
