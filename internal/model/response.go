package model

import "net/http"

// ErrorResponse is the single error envelope returned by every endpoint.
// Error holds the HTTP status text, Message the human readable detail.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewErrorResponse builds the envelope for status
func NewErrorResponse(status int, message string) ErrorResponse {
	return ErrorResponse{Error: http.StatusText(status), Message: message}
}
