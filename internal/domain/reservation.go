package domain

import "github.com/bemooooooooo/coworking-client/internal/pkg/timeutil"

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

// Reservation binds one user to one workspace for the half-open interval
// [StartTime, EndTime). Status is informational: a cancelled reservation is
// deleted server-side, so client logic keys on existence, not on Status.
type Reservation struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"userId"`
	WorkspaceID   int64             `json:"workspaceId"`
	WorkspaceName string            `json:"workspaceName,omitempty"`
	StartTime     timeutil.WireTime `json:"startTime"`
	EndTime       timeutil.WireTime `json:"endTime"`
	Status        ReservationStatus `json:"status,omitempty"`
}
