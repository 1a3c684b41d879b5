package errors

// ErrorResponse is the JSON structure returned to presentation layers.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to clients.
type ErrorBody struct {
	Kind      Kind           `json:"kind"`
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Stage     string         `json:"stage,omitempty"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Kind:      e.Kind,
			Code:      e.Code,
			Message:   e.Message,
			Stage:     e.Stage,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}
