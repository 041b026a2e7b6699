package domain

// Workspace is a bookable physical resource: a desk or a room. The booking
// workflow treats workspaces as point-in-time snapshots from an availability
// query and never caches them across queries.
type Workspace struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Capacity    int    `json:"capacity"`
	Active      bool   `json:"active"`
	Description string `json:"description,omitempty"`
}
