package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorChain(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := fmt.Errorf("generate hooks: %w", NewServiceError("generation failed", cause))

	assert.True(t, IsServiceError(err))
	assert.False(t, IsValidationError(err))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "generate hooks: generation failed: quota exceeded", err.Error())
}

func TestWrapErrorKeepsType(t *testing.T) {
	inner := NewConflictError("already generating", nil)

	wrapped := WrapError(inner, "hooks", ErrorTypeService)

	assert.True(t, IsConflictError(wrapped))
	assert.Equal(t, "CONFLICT", wrapped.(*AppError).Code)
	assert.Nil(t, WrapError(nil, "x", ErrorTypeService))
	assert.True(t, IsValidationError(WrapError(errors.New("bad"), "input", ErrorTypeValidation)))
}

func TestTypeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.Equal(t, "SERVICE_UNAVAILABLE", NewUnavailableError("no provider", nil).Code)
}
