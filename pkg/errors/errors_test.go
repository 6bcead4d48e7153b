package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarrySentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
	}{
		{"auth required", AuthRequired(), ErrAuthRequired, http.StatusUnauthorized},
		{"fetch failed", FetchFailed(errors.New("down")), ErrFetchFailed, http.StatusBadGateway},
		{"mutation failed", MutationFailed("add item", errors.New("down")), ErrMutationFailed, http.StatusBadGateway},
		{"item busy", ItemBusy("p1"), ErrItemBusy, http.StatusConflict},
		{"not found", NotFound("cart", "user-1"), ErrNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("bad"), ErrInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("clash"), ErrConflict, http.StatusConflict},
		{"service unavailable", ServiceUnavailable("maintenance"), ErrServiceUnavail, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_WrappedSentinels(t *testing.T) {
	err := fmt.Errorf("engine: %w", ErrFetchFailed)
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))

	err = fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrItemBusy))
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
}

func TestHTTPStatus_Unknown(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("mystery")))
}

func TestFetchFailed_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := FetchFailed(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "FETCH_FAILED")
}

func TestItemBusy_Message(t *testing.T) {
	err := ItemBusy("p42")
	assert.Contains(t, err.Message, "p42")
}
