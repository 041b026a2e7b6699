package availability

import (
	"time"

	"github.com/bemooooooooo/coworking-client/internal/domain"
)

// IsSlotOccupied reports whether the candidate half-open interval
// [candidateStart, candidateEnd) intersects any known reservation. Intervals
// that merely touch (one ends exactly when the other starts) do not count as
// overlapping.
//
// The check is advisory: it runs against the most recent snapshot of known
// reservations and the backend remains the authority. A stale snapshot can
// miss a conflict; that race is resolved by the submission-time rejection,
// not by client-side locking.
func IsSlotOccupied(candidateStart, candidateEnd time.Time, existing []domain.Reservation) bool {
	for _, r := range existing {
		if candidateStart.Before(r.EndTime.Time) && r.StartTime.Time.Before(candidateEnd) {
			return true
		}
	}
	return false
}

// ConflictsForWorkspace narrows the check to the reservations occupying one
// workspace, for callers holding a mixed reservation set.
func ConflictsForWorkspace(candidateStart, candidateEnd time.Time, workspaceID int64, existing []domain.Reservation) bool {
	scoped := make([]domain.Reservation, 0, len(existing))
	for _, r := range existing {
		if r.WorkspaceID == workspaceID {
			scoped = append(scoped, r)
		}
	}
	return IsSlotOccupied(candidateStart, candidateEnd, scoped)
}
