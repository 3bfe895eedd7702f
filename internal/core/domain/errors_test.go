package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidArgument", ErrInvalidArgument},
		{"ErrStorageUnavailable", ErrStorageUnavailable},
		{"ErrBuildFailure", ErrBuildFailure},
		{"ErrResolutionGap", ErrResolutionGap},
		{"ErrNoCorpus", ErrNoCorpus},
		{"ErrIndexClosed", ErrIndexClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Wrapping(t *testing.T) {
	err := fmt.Errorf("%w: fetch corpus: %w", ErrBuildFailure, ErrNoCorpus)

	assert.True(t, errors.Is(err, ErrBuildFailure))
	assert.True(t, errors.Is(err, ErrNoCorpus))
	assert.False(t, errors.Is(err, ErrStorageUnavailable))
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrNotFound, ErrResolutionGap))
	assert.False(t, errors.Is(ErrInvalidArgument, ErrBuildFailure))
}
