package dto

// Response is the envelope every API endpoint returns. Success responses carry
// Payload; failures carry Code and Message.
type Response struct {
	Success bool               `json:"success"`
	Payload any                `json:"payload,omitempty"`
	Code    string             `json:"code,omitempty"`
	Message string             `json:"message,omitempty"`
	Details []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail names one rejected query parameter
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Envelope is the typed view of Response used when decoding on the client side.
type Envelope[T any] struct {
	Success bool               `json:"success"`
	Payload T                  `json:"payload"`
	Code    string             `json:"code,omitempty"`
	Message string             `json:"message,omitempty"`
	Details []ValidationDetail `json:"details,omitempty"`
}

// Page is the payload of list endpoints
type Page[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(payload any) Response {
	return Response{
		Success: true,
		Payload: payload,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// NewValidationErrorResponse creates a BAD_REQUEST response listing the
// rejected parameters.
func NewValidationErrorResponse(message string, details []ValidationDetail) Response {
	return Response{
		Success: false,
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: details,
	}
}
