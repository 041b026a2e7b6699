package reservation

import "github.com/bemooooooooo/coworking-client/internal/pkg/timeutil"

type CreateReservationRequest struct {
	WorkspaceID int64             `json:"workspaceId"`
	StartTime   timeutil.WireTime `json:"startTime"`
	EndTime     timeutil.WireTime `json:"endTime"`
}
