package dto

// UpdateProfileRequest is the body of PUT /bank/update-profile. Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Phone        *string `json:"phone"`
	ProfileImage *string `json:"profile_image"`
}

// HealthResponse is the payload of GET /health
type HealthResponse struct {
	Status      string            `json:"status"`
	Database    string            `json:"database"`
	LatencyMs   int64             `json:"latency_ms"`
	Connections ConnectionsStatus `json:"connections"`
}

// ConnectionsStatus is the database pool usage reported by GET /health
type ConnectionsStatus struct {
	Open  int `json:"open"`
	InUse int `json:"in_use"`
}
