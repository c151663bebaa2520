package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidProduct     = errors.New("unknown product")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternal           = errors.New("internal error")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrIdentityUnresolved = errors.New("identity unresolved")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Status    int    `json:"-"`
	Retryable bool   `json:"retryable,omitempty"`
	Err       error  `json:"-"`
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

// InvalidProduct creates a 422 error for a product id unknown to the catalog.
// Commands carrying such an id are rejected without mutating any state.
func InvalidProduct(productID string) *AppError {
	return &AppError{
		Code:    "INVALID_PRODUCT",
		Message: fmt.Sprintf("product %q does not exist", productID),
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrInvalidProduct,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
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

// StoreUnavailable creates a 503 error for a persistence backend timeout or
// failure. The command is safe to retry; no partial mutation is visible.
func StoreUnavailable(err error) *AppError {
	return &AppError{
		Code:      "STORE_UNAVAILABLE",
		Message:   "wishlist store is temporarily unavailable",
		Status:    http.StatusServiceUnavailable,
		Retryable: true,
		Err:       fmt.Errorf("%w: %w", ErrStoreUnavailable, err),
	}
}

// DependencyUnavailable creates a 503 error for an upstream dependency (such
// as the product catalog) that could not be consulted. Retryable.
func DependencyUnavailable(dependency string, err error) *AppError {
	return &AppError{
		Code:      "DEPENDENCY_UNAVAILABLE",
		Message:   fmt.Sprintf("%s is temporarily unavailable", dependency),
		Status:    http.StatusServiceUnavailable,
		Retryable: true,
		Err:       err,
	}
}

// IdentityUnresolved creates a 500 error. The resolver never fails in normal
// operation; this is reserved for a misconfigured identity collaborator and is
// fatal for the request only.
func IdentityUnresolved(err error) *AppError {
	return &AppError{
		Code:    "IDENTITY_UNRESOLVED",
		Message: "could not resolve a wishlist owner for this request",
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("%w: %w", ErrIdentityUnresolved, err),
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidProduct):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
