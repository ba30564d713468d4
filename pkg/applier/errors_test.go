package applier_test

import (
	"errors"
	"testing"

	"github.com/feedbridge/glsbridge/pkg/applier"
	"github.com/stretchr/testify/assert"
)

func TestApplierError_Error(t *testing.T) {
	err := applier.NewApplierError("gls", "MISSING_CREDENTIALS", "API credentials are not configured")
	assert.Equal(t, "gls error (MISSING_CREDENTIALS): API credentials are not configured", err.Error())
}

func TestApplierError_ErrorWithCause(t *testing.T) {
	cause := errors.New("network timeout")
	err := applier.NewApplierError("gls", "LOOKUP_ERROR", "lookup call failed").WithCause(cause)
	assert.Contains(t, err.Error(), "lookup call failed")
	assert.Contains(t, err.Error(), "network timeout")
}

func TestApplierError_Unwrap(t *testing.T) {
	cause := errors.New("network timeout")
	err := applier.NewApplierError("gls", "LOOKUP_ERROR", "lookup call failed").WithCause(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestApplierError_Is(t *testing.T) {
	err1 := applier.NewApplierError("gls", "MISSING_CREDENTIALS", "no credentials")
	err2 := applier.NewApplierError("colissimo", "MISSING_CREDENTIALS", "different message")

	assert.True(t, errors.Is(err1, err2))
}

func TestApplierError_IsNot(t *testing.T) {
	err1 := applier.NewApplierError("gls", "MISSING_CREDENTIALS", "no credentials")
	err2 := applier.NewApplierError("gls", "MISSING_ENDPOINT", "no endpoint")

	assert.False(t, errors.Is(err1, err2))
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"applier not found", applier.ErrApplierNotFound},
		{"lookup failed", applier.ErrLookupFailed},
		{"assign failed", applier.ErrAssignFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}
