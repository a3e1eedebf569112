package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"validation error: missing medicationName or details"`
}

// SubmitResponse represents a successful submission response
type SubmitResponse struct {
	Message string `json:"message" example:"Evaluation data saved successfully"`
}
