package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedVendor", ErrUnsupportedVendor},
		{"ErrMissingCredentials", ErrMissingCredentials},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrAborted", ErrAborted},
		{"ErrConfirmationRequired", ErrConfirmationRequired},
		{"ErrTokenRefreshFailed", ErrTokenRefreshFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("zoom: %w: ZOOM_CLIENT_ID", ErrMissingCredentials)

	assert.True(t, errors.Is(wrapped, ErrMissingCredentials))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
}
