package onboardingerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrTaskNotFound = apperror.New(
		"TASK_NOT_FOUND",
		"onboarding task not found",
		http.StatusNotFound,
	)
	ErrTaskAlreadyCompleted = apperror.New(
		apperror.CodeInvalidState,
		"onboarding task is already completed",
		http.StatusConflict,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrInvalidDueDate = apperror.New(
		apperror.CodeInvalidInput,
		"due_date must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
