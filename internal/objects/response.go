package objects

type ErrorResponse struct {
	Error Error `json:"error"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`

	// RequestID echoes the request correlation id so callers can reference a
	// specific failure.
	RequestID string `json:"requestId,omitempty"`
}
