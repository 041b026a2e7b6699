package reservation

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/bemooooooooo/coworking-client/internal/api"
	"github.com/bemooooooooo/coworking-client/internal/domain"
	"github.com/bemooooooooo/coworking-client/internal/pkg/timeutil"
)

// Service wraps the reservation endpoints (/api base). Ownership is implicit:
// the backend scopes /reservations/user* to the bearer of the access token.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Create submits a reservation for [start, end). The interval invariant is
// checked here so an inverted window never reaches the network.
func (s *Service) Create(ctx context.Context, workspaceID int64, start, end time.Time) (*domain.Reservation, error) {
	if workspaceID <= 0 {
		return nil, fmt.Errorf("%w: workspace id %d", timeutil.ErrInvalidInput, workspaceID)
	}
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return nil, fmt.Errorf("%w: reservation start %v must precede end %v", timeutil.ErrInvalidInput, start, end)
	}

	req := CreateReservationRequest{
		WorkspaceID: workspaceID,
		StartTime:   timeutil.NewWireTime(start),
		EndTime:     timeutil.NewWireTime(end),
	}
	var out domain.Reservation
	if err := s.client.Post(ctx, "/reservations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get looks a reservation up by id. Absence is a normal result: (nil, nil).
func (s *Service) Get(ctx context.Context, id int64) (*domain.Reservation, error) {
	var out domain.Reservation
	err := s.client.Get(ctx, fmt.Sprintf("/reservations/%d", id), nil, &out)
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUser returns every reservation the current user ever made.
func (s *Service) ListUser(ctx context.Context) ([]domain.Reservation, error) {
	var out []domain.Reservation
	if err := s.client.Get(ctx, "/reservations/user", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUserActive returns the current user's reservations that are still ahead.
func (s *Service) ListUserActive(ctx context.Context) ([]domain.Reservation, error) {
	var out []domain.Reservation
	if err := s.client.Get(ctx, "/reservations/user/active", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTime reschedules a reservation. A vanished reservation (cancelled
// elsewhere) is reported as (nil, nil).
func (s *Service) UpdateTime(ctx context.Context, id int64, newStart, newEnd time.Time) (*domain.Reservation, error) {
	if !newStart.Before(newEnd) {
		return nil, fmt.Errorf("%w: reservation start %v must precede end %v", timeutil.ErrInvalidInput, newStart, newEnd)
	}
	startStr, err := timeutil.FormatWire(newStart)
	if err != nil {
		return nil, err
	}
	endStr, err := timeutil.FormatWire(newEnd)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("newStartTime", startStr)
	query.Set("newEndTime", endStr)

	var out domain.Reservation
	err = s.client.Put(ctx, fmt.Sprintf("/reservations/%d/time", id), query, nil, &out)
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel deletes a reservation. Returns false when it was already gone.
func (s *Service) Cancel(ctx context.Context, id int64) (bool, error) {
	err := s.client.Delete(ctx, fmt.Sprintf("/reservations/%d", id))
	if errors.Is(err, api.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListForWorkspace returns all reservations occupying one workspace.
func (s *Service) ListForWorkspace(ctx context.Context, workspaceID int64) ([]domain.Reservation, error) {
	var out []domain.Reservation
	if err := s.client.Get(ctx, fmt.Sprintf("/reservations/workspace/%d", workspaceID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRange returns all reservations intersecting the window [start, end).
func (s *Service) ListRange(ctx context.Context, start, end time.Time) ([]domain.Reservation, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: window start %v not before end %v", timeutil.ErrInvalidInput, start, end)
	}
	startStr, err := timeutil.FormatWire(start)
	if err != nil {
		return nil, err
	}
	endStr, err := timeutil.FormatWire(end)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("startTime", startStr)
	query.Set("endTime", endStr)

	var out []domain.Reservation
	if err := s.client.Get(ctx, "/reservations/range", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}
