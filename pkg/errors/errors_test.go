package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefinitionError(t *testing.T) {
	assert.Equal(t, "Validation failed", ValidationError.Error())
	assert.Equal(t, "VALIDATION_ERROR", ValidationError.Code)
}

func TestWithDetails(t *testing.T) {
	err := ValidationError.WithDetails(map[string]interface{}{
		"latitude": "must be between -90 and 90",
	})

	assert.Equal(t, ValidationError.Code, err.Code)
	assert.Equal(t, ValidationError.Message, err.Error())
	assert.Equal(t, "must be between -90 and 90", err.Details["latitude"])
}

func TestLookup(t *testing.T) {
	for code, def := range Lookup {
		assert.Equal(t, code, def.Code)
	}
	assert.Contains(t, Lookup, "TRIGGER_IN_PROGRESS")
	assert.Contains(t, Lookup, "ALERT_NOT_CONFIGURED")
}

func TestIsNonRetryableError(t *testing.T) {
	base := NewNonRetryableError("isv.SMS_SIGNATURE_ILLEGAL", "signature rejected", "check sign name")
	assert.True(t, IsNonRetryableError(base))

	wrapped := fmt.Errorf("failed to deliver notification: %w", base)
	assert.True(t, IsNonRetryableError(wrapped))

	assert.False(t, IsNonRetryableError(fmt.Errorf("transient network error")))
	assert.False(t, IsNonRetryableError(nil))
}

func TestIsSkipMessageError(t *testing.T) {
	skip := &SkipMessageError{Reason: "message already processed"}
	assert.True(t, IsSkipMessageError(skip))
	assert.True(t, IsSkipMessageError(fmt.Errorf("handler: %w", skip)))
	assert.False(t, IsSkipMessageError(fmt.Errorf("some other error")))
}
