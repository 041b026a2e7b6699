package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bemooooooooo/coworking-client/internal/availability"
	"github.com/bemooooooooo/coworking-client/internal/domain"
	"github.com/bemooooooooo/coworking-client/internal/pkg/timeutil"
)

// Step is the workflow's position in the booking flow. Steps advance strictly
// forward; Back moves exactly one stage toward TimeSelection.
type Step int

const (
	StepTimeSelection Step = iota
	StepWorkspaceSelection
	StepConfirmation
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepTimeSelection:
		return "time_selection"
	case StepWorkspaceSelection:
		return "workspace_selection"
	case StepConfirmation:
		return "confirmation"
	case StepCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// DefaultDuration is the fixed booking length: availability is queried and
// reservations are created for [dateTime, dateTime+DefaultDuration).
const DefaultDuration = time.Hour

// Workflow drives one booking attempt: time selection, workspace selection,
// confirmation. One instance exists per session; its methods reject input
// while a network call is outstanding instead of queueing it. A failed call
// never discards data collected in earlier stages, so the user can retry.
type Workflow struct {
	workspaces   WorkspaceFinder
	reservations ReservationClient
	now          func() time.Time
	duration     time.Duration

	mu       sync.Mutex
	step     Step
	busy     bool
	attempt  string // responses tagged with a superseded attempt are dropped
	dateTime time.Time
	offered  []domain.Workspace
	selected *domain.Workspace
	known    []domain.Reservation
	result   *domain.Reservation
}

func NewWorkflow(workspaces WorkspaceFinder, reservations ReservationClient) *Workflow {
	return &Workflow{
		workspaces:   workspaces,
		reservations: reservations,
		now:          time.Now,
		duration:     DefaultDuration,
		step:         StepTimeSelection,
		attempt:      uuid.NewString(),
	}
}

// SetClock replaces the time source, for tests.
func (w *Workflow) SetClock(now func() time.Time) { w.now = now }

// Start loads the user's active reservations for the advisory conflict check.
// A load failure leaves the workflow usable with an empty known set: the
// check is advisory and the backend stays authoritative either way.
func (w *Workflow) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	w.busy = true
	attempt := w.attempt
	w.mu.Unlock()

	known, err := w.reservations.ListUserActive(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if w.attempt != attempt {
		return nil
	}
	if err != nil {
		return err
	}
	w.known = known
	return nil
}

// SelectTime commits a candidate start time and queries which workspaces are
// free for [t, t+duration). On success the workflow moves to workspace
// selection; on failure it stays in time selection with nothing lost.
func (w *Workflow) SelectTime(ctx context.Context, t time.Time) error {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return ErrBusy
	}
	if w.step != StepTimeSelection {
		w.mu.Unlock()
		return ErrInvalidTransition
	}
	if !timeutil.BookableAt(t, w.now()) {
		w.mu.Unlock()
		return ErrNotBookable
	}
	end := t.Add(w.duration)
	if availability.IsSlotOccupied(t, end, w.known) {
		w.mu.Unlock()
		return ErrSlotOccupied
	}
	w.busy = true
	attempt := w.attempt
	w.mu.Unlock()

	offered, err := w.workspaces.Available(ctx, t, end)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if w.attempt != attempt {
		// the user left this workflow while the call was in flight
		return nil
	}
	if err != nil {
		return err
	}
	w.dateTime = t
	w.offered = offered
	w.selected = nil
	w.step = StepWorkspaceSelection
	return nil
}

// SelectWorkspace picks one of the workspaces returned by the availability
// query. Anything outside that list is rejected, even a perfectly real
// workspace id: the offer set is the contract of this stage.
func (w *Workflow) SelectWorkspace(id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return ErrBusy
	}
	if w.step != StepWorkspaceSelection {
		return ErrInvalidTransition
	}
	for i := range w.offered {
		if w.offered[i].ID == id {
			ws := w.offered[i]
			w.selected = &ws
			w.step = StepConfirmation
			return nil
		}
	}
	return ErrWorkspaceNotOffered
}

// Confirm submits the reservation. On success the workflow is complete. On
// backend rejection it stays in confirmation with dateTime and workspace
// intact; there is no automatic retry, the user decides.
func (w *Workflow) Confirm(ctx context.Context) (*domain.Reservation, error) {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	if w.step != StepConfirmation || w.selected == nil {
		w.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	start := w.dateTime
	end := start.Add(w.duration)
	// last advisory pass before spending a round trip; stale data may still
	// let a conflict through, which the backend will reject
	if availability.IsSlotOccupied(start, end, w.known) {
		w.mu.Unlock()
		return nil, ErrSlotOccupied
	}
	workspaceID := w.selected.ID
	w.busy = true
	attempt := w.attempt
	w.mu.Unlock()

	created, err := w.reservations.Create(ctx, workspaceID, start, end)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if w.attempt != attempt {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	w.result = created
	w.step = StepCompleted
	return created, nil
}

// Back steps one stage toward the start, keeping the data already collected.
// From time selection it reports that the workflow should be exited; actual
// navigation belongs to the caller.
func (w *Workflow) Back() (exit bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return false, ErrBusy
	}
	switch w.step {
	case StepTimeSelection:
		return true, nil
	case StepWorkspaceSelection:
		w.step = StepTimeSelection
		return false, nil
	case StepConfirmation:
		w.step = StepWorkspaceSelection
		return false, nil
	default:
		return false, ErrInvalidTransition
	}
}

// Reset abandons the current attempt and returns to a fresh time selection.
// Any in-flight response for the old attempt is discarded when it lands.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attempt = uuid.NewString()
	w.step = StepTimeSelection
	w.busy = false
	w.dateTime = time.Time{}
	w.offered = nil
	w.selected = nil
	w.result = nil
}

func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Workflow) DateTime() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dateTime
}

// Offered returns the workspace snapshot from the last availability query.
func (w *Workflow) Offered() []domain.Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.offered
}

func (w *Workflow) Selected() *domain.Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

// Result returns the confirmed reservation once the workflow completed.
func (w *Workflow) Result() *domain.Reservation {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}
