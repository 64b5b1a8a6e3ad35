package notificationerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrInvalidRecipientID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid recipient id",
		http.StatusBadRequest,
	)
	ErrNotificationNotFound = apperror.New(
		"NOTIFICATION_NOT_FOUND",
		"notification not found",
		http.StatusNotFound,
	)
)
