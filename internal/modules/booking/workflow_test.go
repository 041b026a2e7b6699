package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bemooooooooo/coworking-client/internal/api"
	"github.com/bemooooooooo/coworking-client/internal/domain"
	"github.com/bemooooooooo/coworking-client/internal/pkg/timeutil"
)

type MockWorkspaceFinder struct {
	mock.Mock
}

func (m *MockWorkspaceFinder) Available(ctx context.Context, start, end time.Time) ([]domain.Workspace, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

type MockReservationClient struct {
	mock.Mock
}

func (m *MockReservationClient) Create(ctx context.Context, workspaceID int64, start, end time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, workspaceID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationClient) ListUserActive(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

var (
	wsA = domain.Workspace{ID: 1, Name: "Desk A", Type: "desk", Capacity: 1, Active: true}
	wsB = domain.Workspace{ID: 2, Name: "Desk B", Type: "desk", Capacity: 1, Active: true}
)

func newTestWorkflow(t *testing.T) (*Workflow, *MockWorkspaceFinder, *MockReservationClient) {
	t.Helper()
	finder := new(MockWorkspaceFinder)
	client := new(MockReservationClient)
	w := NewWorkflow(finder, client)
	// fixed clock well before the scenario date
	w.SetClock(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local) })
	return w, finder, client
}

func TestWorkflow_HappyPath(t *testing.T) {
	w, finder, client := newTestWorkflow(t)
	ctx := context.Background()

	start := time.Date(2024, 6, 10, 10, 0, 0, 0, time.Local)
	end := time.Date(2024, 6, 10, 11, 0, 0, 0, time.Local)

	finder.On("Available", ctx, start, end).Return([]domain.Workspace{wsA, wsB}, nil)
	client.On("Create", ctx, wsB.ID, start, end).Return(&domain.Reservation{
		ID:          77,
		WorkspaceID: wsB.ID,
		StartTime:   timeutil.NewWireTime(start),
		EndTime:     timeutil.NewWireTime(end),
	}, nil)

	require.NoError(t, w.SelectTime(ctx, start))
	assert.Equal(t, StepWorkspaceSelection, w.Step())
	assert.Equal(t, []domain.Workspace{wsA, wsB}, w.Offered())

	require.NoError(t, w.SelectWorkspace(wsB.ID))
	assert.Equal(t, StepConfirmation, w.Step())
	require.NotNil(t, w.Selected())
	assert.Equal(t, "Desk B", w.Selected().Name)

	res, err := w.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepCompleted, w.Step())
	require.NotNil(t, res)
	assert.Equal(t, wsB.ID, res.WorkspaceID)

	gotStart, err := timeutil.FormatWire(res.StartTime.Time)
	require.NoError(t, err)
	gotEnd, err := timeutil.FormatWire(res.EndTime.Time)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10 10:00:00", gotStart)
	assert.Equal(t, "2024-06-10 11:00:00", gotEnd)

	finder.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestWorkflow_SelectTime_RejectsUnbookable(t *testing.T) {
	w, _, _ := newTestWorkflow(t)
	ctx := context.Background()

	// in the past
	err := w.SelectTime(ctx, time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local))
	assert.ErrorIs(t, err, ErrNotBookable)
	// outside working hours
	err = w.SelectTime(ctx, time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local))
	assert.ErrorIs(t, err, ErrNotBookable)
	err = w.SelectTime(ctx, time.Date(2024, 6, 10, 19, 0, 0, 0, time.Local))
	assert.ErrorIs(t, err, ErrNotBookable)

	assert.Equal(t, StepTimeSelection, w.Step())
}

func TestWorkflow_SelectTime_AdvisoryConflict(t *testing.T) {
	w, _, client := newTestWorkflow(t)
	ctx := context.Background()

	existingStart := time.Date(2024, 6, 10, 10, 30, 0, 0, time.Local)
	existingEnd := time.Date(2024, 6, 10, 11, 30, 0, 0, time.Local)
	client.On("ListUserActive", ctx).Return([]domain.Reservation{{
		ID:          5,
		WorkspaceID: wsA.ID,
		StartTime:   timeutil.NewWireTime(existingStart),
		EndTime:     timeutil.NewWireTime(existingEnd),
	}}, nil)
	require.NoError(t, w.Start(ctx))

	err := w.SelectTime(ctx, time.Date(2024, 6, 10, 10, 0, 0, 0, time.Local))
	assert.ErrorIs(t, err, ErrSlotOccupied)
	assert.Equal(t, StepTimeSelection, w.Step())

	// exactly adjacent slot passes the advisory check
	start := time.Date(2024, 6, 10, 11, 30, 0, 0, time.Local)
	finder := w.workspaces.(*MockWorkspaceFinder)
	finder.On("Available", ctx, start, start.Add(time.Hour)).Return([]domain.Workspace{wsA}, nil)
	assert.NoError(t, w.SelectTime(ctx, start))
}

func TestWorkflow_SelectTime_QueryFailureStays(t *testing.T) {
	w, finder, _ := newTestWorkflow(t)
	ctx := context.Background()

	start := time.Date(2024, 6, 10, 10, 0, 0, 0, time.Local)
	finder.On("Available", ctx, start, start.Add(time.Hour)).
		Return(nil, &api.TransportError{Err: context.DeadlineExceeded})

	err := w.SelectTime(ctx, start)
	assert.True(t, api.IsTransport(err))
	assert.Equal(t, StepTimeSelection, w.Step())
	assert.Empty(t, w.Offered())
}

func TestWorkflow_SelectWorkspace_OutsideOfferRejected(t *testing.T) {
	w, finder, _ := newTestWorkflow(t)
	ctx := context.Background()

	start := time.Date(2024, 6, 10, 10, 0, 0, 0, time.Local)
	finder.On("Available", ctx, start, start.Add(time.Hour)).Return([]domain.Workspace{wsA}, nil)
	require.NoError(t, w.SelectTime(ctx, start))

	err := w.SelectWorkspace(wsB.ID)
	assert.ErrorIs(t, err, ErrWorkspaceNotOffered)
	assert.Equal(t, StepWorkspaceSelection, w.Step())
	assert.Nil(t, w.Selected())
}

func TestWorkflow_Confirm_BackendRejectionKeepsSelections(t *testing.T) {
	w, finder, client := newTestWorkflow(t)
	ctx := context.Background()

	start := time.Date(2024, 6, 10, 10, 0, 0, 0, time.Local)
	end := start.Add(time.Hour)
	finder.On("Available", ctx, start, end).Return([]domain.Workspace{wsA}, nil)
	client.On("Create", ctx, wsA.ID, start, end).Return(nil, &api.APIError{
		Status:  409,
		Code:    "RESERVATION_CONFLICT",
		Message: "workspace already reserved for this window",
	})

	require.NoError(t, w.SelectTime(ctx, start))
	require.NoError(t, w.SelectWorkspace(wsA.ID))

	_, err := w.Confirm(ctx)
	apiErr, ok := api.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "RESERVATION_CONFLICT", apiErr.Code)

	// selections survive for a manual retry
	assert.Equal(t, StepConfirmation, w.Step())
	assert.Equal(t, start, w.DateTime())
	require.NotNil(t, w.Selected())
	assert.Equal(t, wsA.ID, w.Selected().ID)
	client.AssertNumberOfCalls(t, "Create", 1)
}

func TestWorkflow_Back(t *testing.T) {
	w, finder, _ := newTestWorkflow(t)
	ctx := context.Background()

	// from the entry state, back means exit
	exit, err := w.Back()
	require.NoError(t, err)
	assert.True(t, exit)

	start := time.Date(2024, 6, 10, 10, 0, 0, 0, time.Local)
	finder.On("Available", ctx, start, start.Add(time.Hour)).Return([]domain.Workspace{wsA}, nil)
	require.NoError(t, w.SelectTime(ctx, start))
	require.NoError(t, w.SelectWorkspace(wsA.ID))

	exit, err = w.Back()
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, StepWorkspaceSelection, w.Step())
	// earlier-stage data kept
	assert.Equal(t, start, w.DateTime())
	assert.Equal(t, []domain.Workspace{wsA}, w.Offered())

	exit, err = w.Back()
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, StepTimeSelection, w.Step())

	exit, err = w.Back()
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestWorkflow_InvalidTransitions(t *testing.T) {
	w, _, _ := newTestWorkflow(t)
	ctx := context.Background()

	assert.ErrorIs(t, w.SelectWorkspace(wsA.ID), ErrInvalidTransition)
	_, err := w.Confirm(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestWorkflow_BusyRejectsInput(t *testing.T) {
	w, finder, _ := newTestWorkflow(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	start := time.Date(2024, 6, 10, 10, 0, 0, 0, time.Local)
	finder.On("Available", ctx, start, start.Add(time.Hour)).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return([]domain.Workspace{wsA}, nil)

	done := make(chan error, 1)
	go func() { done <- w.SelectTime(ctx, start) }()
	<-entered

	assert.ErrorIs(t, w.SelectTime(ctx, start), ErrBusy)
	assert.ErrorIs(t, w.SelectWorkspace(wsA.ID), ErrBusy)
	_, err := w.Confirm(ctx)
	assert.ErrorIs(t, err, ErrBusy)
	_, err = w.Back()
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StepWorkspaceSelection, w.Step())
}

func TestWorkflow_ResetDiscardsInFlightResponse(t *testing.T) {
	w, finder, _ := newTestWorkflow(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	start := time.Date(2024, 6, 10, 10, 0, 0, 0, time.Local)
	finder.On("Available", ctx, start, start.Add(time.Hour)).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return([]domain.Workspace{wsA, wsB}, nil)

	done := make(chan error, 1)
	go func() { done <- w.SelectTime(ctx, start) }()
	<-entered

	w.Reset()
	close(release)
	require.NoError(t, <-done)

	// the late availability response must not advance the fresh workflow
	assert.Equal(t, StepTimeSelection, w.Step())
	assert.Empty(t, w.Offered())
	assert.True(t, w.DateTime().IsZero())
}
