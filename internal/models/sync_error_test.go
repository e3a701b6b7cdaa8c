package models

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("stage: %w", NewSyncError(ErrorCodeTransportFailure, "soracom data request failed", nil, cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorCodeTransportFailure, CodeOf(err))
	assert.Contains(t, err.Error(), "[transport_failure] soracom data request failed: connection refused")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrorCode(""), CodeOf(nil))
	assert.Equal(t, ErrorCodeUnexpected, CodeOf(errors.New("boom")))
	assert.Equal(t, ErrorCodeNotFound, CodeOf(NewSyncError(ErrorCodeNotFound, "missing", nil, nil)))
}

func TestToAPIError(t *testing.T) {
	apiErr := ToAPIError(NewSyncError(ErrorCodeEmptyResult, "no data returned from soracom", nil, nil))
	assert.Equal(t, ErrorCodeEmptyResult, apiErr.Code)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	apiErr = ToAPIError(NewSyncError(ErrorCodeUpdateRejected, "rejected", EditResult{}, nil))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.NotNil(t, apiErr.Details)

	apiErr = ToAPIError(errors.New("boom"))
	assert.Equal(t, ErrorCodeUnexpected, apiErr.Code)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}
