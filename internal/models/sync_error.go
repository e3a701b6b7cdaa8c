package models

import (
	"errors"
	"fmt"
)

// SyncError is returned by every stage of a sync run. The caller checks for it
// and skips the remaining stages.
type SyncError struct {
	Code    ErrorCode
	Message string
	Details any
	Err     error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError is a constructor for SyncError. err may be nil.
func NewSyncError(code ErrorCode, message string, details any, err error) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		Details: details,
		Err:     err,
	}
}

// CodeOf returns the code carried by err, or ErrorCodeUnexpected for any
// error that is not a SyncError. A nil error has no code.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Code
	}
	return ErrorCodeUnexpected
}

// ToAPIError converts a run failure into the trigger's response body.
func ToAPIError(err error) APIError {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return NewAPIError(syncErr.Code, syncErr.Error(), syncErr.Details, StatusFor(syncErr.Code))
	}
	return NewAPIError(ErrorCodeUnexpected, err.Error(), nil, StatusFor(ErrorCodeUnexpected))
}
