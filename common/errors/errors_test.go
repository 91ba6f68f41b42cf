package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"not found", NotFoundf("material %q", "hull"), ErrorTypeNotFound},
		{"validation", Validationf("value %v out of range", 2), ErrorTypeValidation},
		{"precondition", Preconditionf("no uniform table"), ErrorTypePrecondition},
		{"wrapped", fmt.Errorf("outer: %w", NotFoundf("x")), ErrorTypeNotFound},
		{"plain", errors.New("boom"), ErrorTypeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetType(tt.err))
		})
	}
}

func TestWrapInternal(t *testing.T) {
	cause := errors.New("device lost")
	err := WrapInternal("upload failed", cause)

	assert.EqualError(t, err, "upload failed: device lost")
	assert.ErrorIs(t, err, cause)
	assert.True(t, Is(err, ErrorTypeInternal))
	assert.False(t, Is(nil, ErrorTypeInternal))
}
