package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewNotFoundError("Fee", "42")
	wrapped := fmt.Errorf("load fee: %w", err)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrInvalidInput))
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, "Fee not found", err.Error())
	assert.Equal(t, "42", err.Details["id"])
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("period", "period must be formatted as YYYY-MM")

	assert.True(t, IsValidationError(err))
	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, "period must be formatted as YYYY-MM", err.Details["period"])
}

func TestDomainError_IsIgnoresOtherErrors(t *testing.T) {
	assert.False(t, ErrNotFound.Is(errors.New("NOT_FOUND")))
}
