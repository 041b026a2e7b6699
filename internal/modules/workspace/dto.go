package workspace

type CreateWorkspaceRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description,omitempty"`
}

type UpdateWorkspaceRequest struct {
	Name        string `json:"name,omitempty"`
	Type        string `json:"type,omitempty"`
	Capacity    int    `json:"capacity,omitempty"`
	Description string `json:"description,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}
