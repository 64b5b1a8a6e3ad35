package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrStorageUnavailable = New(
		CodeServiceUnavailable,
		"Storage is temporarily unavailable, retry the operation",
		http.StatusServiceUnavailable,
	)
)

// RequiredField builds the error returned when a bound field is missing.
func RequiredField(field string) *AppError {
	return New(CodeInvalidInput, field+" is required", http.StatusBadRequest)
}

// InvalidField builds the error returned when a bound field fails validation.
func InvalidField(field string) *AppError {
	return New(CodeInvalidInput, field+" is invalid", http.StatusBadRequest)
}

// Storage wraps a persistence-layer failure. Callers are expected to retry
// the whole operation; state transitions stay retry-safe because they are
// guarded by compare-and-swap updates.
func Storage(err error) *AppError {
	return Wrap(err, CodeServiceUnavailable, "Storage is temporarily unavailable, retry the operation", http.StatusServiceUnavailable)
}
