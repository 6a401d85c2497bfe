package model

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Data  any    `json:"data,omitempty"`
}

// HealthResponse reports whether an events document has been loaded yet.
type HealthResponse struct {
	Status   string `json:"status"`
	Events   int    `json:"events"`
	Token    string `json:"token,omitempty"`
	LoadedAt string `json:"loaded_at,omitempty"`
}
