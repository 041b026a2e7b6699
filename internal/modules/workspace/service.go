package workspace

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/bemooooooooo/coworking-client/internal/api"
	"github.com/bemooooooooo/coworking-client/internal/domain"
	"github.com/bemooooooooo/coworking-client/internal/pkg/timeutil"
)

// Service wraps the workspace endpoints (/api base). Availability results are
// point-in-time snapshots and are never cached here: a workspace free for one
// window says nothing about the next.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// List returns every workspace, active or not.
func (s *Service) List(ctx context.Context) ([]domain.Workspace, error) {
	var out []domain.Workspace
	if err := s.client.Get(ctx, "/workspaces", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Available returns the workspaces free for the half-open window [start, end).
func (s *Service) Available(ctx context.Context, start, end time.Time) ([]domain.Workspace, error) {
	query, err := windowQuery(start, end)
	if err != nil {
		return nil, err
	}

	var out []domain.Workspace
	if err := s.client.Get(ctx, "/workspaces/available", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AvailableWithCapacity narrows Available to workspaces seating at least
// minCapacity people.
func (s *Service) AvailableWithCapacity(ctx context.Context, start, end time.Time, minCapacity int) ([]domain.Workspace, error) {
	if minCapacity <= 0 {
		return nil, fmt.Errorf("%w: minCapacity %d", timeutil.ErrInvalidInput, minCapacity)
	}
	query, err := windowQuery(start, end)
	if err != nil {
		return nil, err
	}
	query.Set("minCapacity", strconv.Itoa(minCapacity))

	var out []domain.Workspace
	if err := s.client.Get(ctx, "/workspaces/available/capacity", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create registers a new workspace. Admin only; the backend enforces the role.
func (s *Service) Create(ctx context.Context, req CreateWorkspaceRequest) (*domain.Workspace, error) {
	var out domain.Workspace
	if err := s.client.Post(ctx, "/workspaces", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update edits a workspace. A missing workspace is reported as (nil, nil):
// the caller chose the id from a listing that may have gone stale.
func (s *Service) Update(ctx context.Context, id int64, req UpdateWorkspaceRequest) (*domain.Workspace, error) {
	var out domain.Workspace
	err := s.client.Put(ctx, fmt.Sprintf("/workspaces/%d", id), nil, req, &out)
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Deactivate retires a workspace. Returns false when it did not exist.
func (s *Service) Deactivate(ctx context.Context, id int64) (bool, error) {
	err := s.client.Delete(ctx, fmt.Sprintf("/workspaces/%d", id))
	if errors.Is(err, api.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func windowQuery(start, end time.Time) (url.Values, error) {
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
	return query, nil
}
