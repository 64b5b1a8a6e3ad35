package offerlettererrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrTemplateNotFound = apperror.New(
		"TEMPLATE_NOT_FOUND",
		"offer letter template not found or inactive",
		http.StatusNotFound,
	)
	ErrLetterNotFound = apperror.New(
		"LETTER_NOT_FOUND",
		"generated offer letter not found",
		http.StatusNotFound,
	)
	ErrEmptyTemplateContent = apperror.New(
		apperror.CodeInvalidInput,
		"template content must not be empty",
		http.StatusBadRequest,
	)
	ErrInvalidSalaryAmount = apperror.New(
		apperror.CodeInvalidInput,
		"salary amounts must be numeric",
		http.StatusBadRequest,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"offer letter status transition not allowed",
		http.StatusConflict,
	)
)
