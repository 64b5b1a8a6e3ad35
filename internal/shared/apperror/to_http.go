package apperror

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// HTTPError is the flattened form handlers hand to the response envelope.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP maps any error to its HTTP representation. Unknown errors are never
// leaked to clients; persistence-level failures map to 503 so callers know
// the operation is safe to retry.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		var details any
		if appErr.Err != nil && appErr.HTTPStatus < http.StatusInternalServerError {
			details = appErr.Err.Error()
		}
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return HTTPError{
			Status:  ErrNotFound.HTTPStatus,
			Code:    ErrNotFound.Code,
			Message: ErrNotFound.Message,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return HTTPError{
			Status:  ErrStorageUnavailable.HTTPStatus,
			Code:    ErrStorageUnavailable.Code,
			Message: ErrStorageUnavailable.Message,
		}
	}

	return HTTPError{
		Status:  ErrInternal.HTTPStatus,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
}
