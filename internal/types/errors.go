// Package types holds the wire-level payloads shared by the REST and
// WebSocket surfaces.
package types

// Error codes carried in ErrorBody.Code. The prefix names the resource
// family, the suffix mirrors the HTTP status.
const (
	CodeAuthBadRequest    = "AUTH_400"
	CodeAuthUnauthorized  = "AUTH_401"
	CodeTokenBadRequest   = "TOKEN_400"
	CodeTokenNotFound     = "TOKEN_404"
	CodeTokenInternal     = "TOKEN_500"
	CodeSessionBadRequest = "SESSION_400"
	CodeSessionNotFound   = "SESSION_404"
	CodeSessionInternal   = "SESSION_500"
	CodeSessionBadGateway = "SESSION_502"
	CodeSessionNoBackend  = "SESSION_503"
	CodeProfileNotFound   = "PROFILE_404"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse builds a consistent API error payload.
// details can be string, map, struct, etc.
func NewErrorResponse(code, message string, details any) ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}
