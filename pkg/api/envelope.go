package api

// Response is the success envelope of every endpoint
type Response[T any] struct {
	Data       T      `json:"data"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Success    bool   `json:"success"`
}

// ErrorResponse is the failure envelope of every endpoint
type ErrorResponse struct {
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	StatusCode int      `json:"statusCode"`
	Success    bool     `json:"success"`
}

// NewResponse builds a success envelope
func NewResponse[T any](statusCode int, data T, message string) Response[T] {
	return Response[T]{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

// NewErrorResponse builds a failure envelope; errors is never null on the wire
func NewErrorResponse(statusCode int, message string, errors []string) ErrorResponse {
	if errors == nil {
		errors = []string{}
	}
	return ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errors,
		Success:    false,
	}
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
}
