package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the cart edge error taxonomy.
var (
	// ErrAuthRequired is returned when a cart mutation is attempted without an
	// authenticated user identity.
	ErrAuthRequired = errors.New("authentication required")

	// ErrFetchFailed is returned when the upstream cart could not be loaded.
	// Callers must preserve any previously loaded local state.
	ErrFetchFailed = errors.New("cart fetch failed")

	// ErrMutationFailed is returned when an upstream add/update/remove call fails.
	ErrMutationFailed = errors.New("cart mutation failed")

	// ErrItemBusy is returned when a mutation for a product is rejected because
	// another mutation for the same product is still in flight.
	ErrItemBusy = errors.New("item mutation already in flight")

	// ErrPartialClear is recorded when one or more per-item deletes fail while
	// clearing the cart after a successful payment. It is logged, never surfaced
	// as a hard failure to the user.
	ErrPartialClear = errors.New("cart partially cleared")

	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal error")
	ErrServiceUnavail = errors.New("service unavailable")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// AuthRequired creates a 401 error for an unauthenticated cart operation.
func AuthRequired() *AppError {
	return &AppError{
		Code:    "AUTH_REQUIRED",
		Message: "please log in to manage your cart",
		Status:  http.StatusUnauthorized,
		Err:     ErrAuthRequired,
	}
}

// FetchFailed creates a 502 error for a failed upstream cart load.
func FetchFailed(err error) *AppError {
	return &AppError{
		Code:    "FETCH_FAILED",
		Message: "failed to load cart items",
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %w", ErrFetchFailed, err),
	}
}

// MutationFailed creates a 502 error for a failed upstream cart mutation.
func MutationFailed(op string, err error) *AppError {
	return &AppError{
		Code:    "MUTATION_FAILED",
		Message: fmt.Sprintf("failed to %s", op),
		Status:  http.StatusBadGateway,
		Err:     fmt.Errorf("%w: %s: %w", ErrMutationFailed, op, err),
	}
}

// ItemBusy creates a 409 error for an overlapping per-item mutation.
func ItemBusy(productID string) *AppError {
	return &AppError{
		Code:    "ITEM_BUSY",
		Message: fmt.Sprintf("an update for product %s is already in progress", productID),
		Status:  http.StatusConflict,
		Err:     ErrItemBusy,
	}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Conflict creates a 409 error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// ServiceUnavailable creates a 503 error.
func ServiceUnavailable(message string) *AppError {
	return &AppError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     ErrServiceUnavail,
	}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrItemBusy), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrFetchFailed), errors.Is(err, ErrMutationFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
