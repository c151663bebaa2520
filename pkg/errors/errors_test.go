package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := InvalidProduct("prod-404")
	assert.Contains(t, err.Error(), "INVALID_PRODUCT")
	assert.Contains(t, err.Error(), "prod-404")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := StoreUnavailable(cause)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, err.Retryable)
}

func TestInvalidProduct_Status(t *testing.T) {
	err := InvalidProduct("p1")
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidProduct))
}

func TestIdentityUnresolved(t *testing.T) {
	err := IdentityUnresolved(errors.New("no signing secret configured"))
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.True(t, errors.Is(err, ErrIdentityUnresolved))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", NotFound("wishlist", "guest:abc"), http.StatusNotFound},
		{"wrapped app error", fmt.Errorf("dispatch: %w", InvalidProduct("p")), http.StatusUnprocessableEntity},
		{"sentinel invalid input", fmt.Errorf("x: %w", ErrInvalidInput), http.StatusBadRequest},
		{"sentinel store unavailable", fmt.Errorf("x: %w", ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"sentinel unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"sentinel forbidden", ErrForbidden, http.StatusForbidden},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("low level")
	err := Wrap(cause, "high level")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "high level")
}
