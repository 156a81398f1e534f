package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(ValidationError, "city is required")
	assert.Equal(t, "VALIDATION_ERROR: city is required", err.Error())
}

func TestAppError_ErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(DatabaseError, "failed to load profiles", cause)

	assert.Equal(t, "DATABASE_ERROR: failed to load profiles (caused by: connection refused)", err.Error())
	assert.Equal(t, cause, err.Unwrap())
}

func TestAppError_ErrorsAs(t *testing.T) {
	var wrapped error = NewExternalAPIError("forecast API returned status code 503", nil)

	var appErr *AppError
	assert.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, ExternalAPIError, appErr.Type)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected ErrorType
	}{
		{"validation", NewValidationError("bad input"), ValidationError},
		{"not found", NewNotFoundError("no coordinates"), NotFoundError},
		{"unauthorized", NewUnauthorizedError("missing token"), UnauthorizedError},
		{"database", NewDatabaseError("query failed", nil), DatabaseError},
		{"external api", NewExternalAPIError("upstream down", nil), ExternalAPIError},
		{"configuration", NewConfigurationError("missing secret", nil), ConfigurationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Type)
		})
	}
}
