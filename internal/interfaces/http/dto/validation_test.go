package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type periodProbe struct {
	Period string `json:"period" binding:"required,period" validate:"required,period"`
	Method string `form:"method" validate:"max=5"`
}

func newTestValidator() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

func TestPeriodTag(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		period string
		valid  bool
	}{
		{"2025-09", true},
		{"2025-12", true},
		{"2025-13", false},
		{"2025-00", false},
		{"2025-9", false},
		{"25-09-01", false},
		{"abcd-ef", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			err := v.Struct(periodProbe{Period: tt.period})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidationDetails(t *testing.T) {
	v := newTestValidator()

	err := v.Struct(periodProbe{Period: "2025-13", Method: "transfer"})
	require.Error(t, err)

	details := ValidationDetails(err)
	assert.Equal(t, "Must be a period formatted as YYYY-MM", details["period"])
	assert.Equal(t, "Must be at most 5 characters", details["method"])
}

func TestValidationDetails_NonValidatorError(t *testing.T) {
	assert.Nil(t, ValidationDetails(assert.AnError))
}
