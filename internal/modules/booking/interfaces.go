package booking

import (
	"context"
	"time"

	"github.com/bemooooooooo/coworking-client/internal/domain"
)

// WorkspaceFinder is the slice of the workspace adapter the workflow needs.
type WorkspaceFinder interface {
	Available(ctx context.Context, start, end time.Time) ([]domain.Workspace, error)
}

// ReservationClient is the slice of the reservation adapter the workflow needs.
type ReservationClient interface {
	Create(ctx context.Context, workspaceID int64, start, end time.Time) (*domain.Reservation, error)
	ListUserActive(ctx context.Context) ([]domain.Reservation, error)
}
