package models

import (
	"fmt"
	"net/http"
)

// ErrorCode is a string type for consistent error codes.
type ErrorCode string

// Predefined error codes, one per way a sync run can stop.
const (
	// Telemetry side
	ErrorCodeAuthFailure      ErrorCode = "auth_failure"
	ErrorCodeTransportFailure ErrorCode = "transport_failure"
	ErrorCodeEmptyResult      ErrorCode = "empty_result"
	ErrorCodeParseFailure     ErrorCode = "parse_failure"

	// Feature store side
	ErrorCodeConnectFailure ErrorCode = "connect_failure"
	ErrorCodeMissingField   ErrorCode = "missing_field"
	ErrorCodeNotFound       ErrorCode = "not_found"
	ErrorCodeAmbiguousMatch ErrorCode = "ambiguous_match"
	ErrorCodeUpdateRejected ErrorCode = "update_rejected"

	// Generic
	ErrorCodeUnexpected   ErrorCode = "unexpected"
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeBadRequest   ErrorCode = "bad_request"
)

// APIError is the JSON body the sync trigger answers with when a run fails.
type APIError struct {
	Code       ErrorCode `json:"code"`              // Use the ErrorCode type
	Message    string    `json:"message"`           // Human-readable error message
	Details    any       `json:"details,omitempty"` // Optional: Additional details
	StatusCode int       `json:"-"`                 // HTTP status code
}

// Error makes APIError implement the error interface.
func (e APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewAPIError is a constructor for APIError.
func NewAPIError(code ErrorCode, message string, details any, statusCode int) APIError {
	return APIError{
		Code:       code,
		Message:    message,
		Details:    details,
		StatusCode: statusCode,
	}
}

// StatusFor maps an error code to the HTTP status the trigger responds with.
func StatusFor(code ErrorCode) int {
	switch code {
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeEmptyResult, ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeAmbiguousMatch:
		return http.StatusConflict
	case ErrorCodeMissingField, ErrorCodeParseFailure:
		return http.StatusUnprocessableEntity
	case ErrorCodeAuthFailure, ErrorCodeTransportFailure, ErrorCodeConnectFailure, ErrorCodeUpdateRejected:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
