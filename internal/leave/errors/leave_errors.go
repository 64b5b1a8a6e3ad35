package leaveerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrMissingEmployeeID = apperror.New(
		"MISSING_EMPLOYEE_ID",
		"employee_id is required",
		http.StatusBadRequest,
	)
	ErrMissingDates = apperror.New(
		"MISSING_DATES",
		"start_date and end_date are required",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		"INVALID_DATE_FORMAT",
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		"INVALID_DATE_RANGE",
		"end_date must be on or after start_date",
		http.StatusBadRequest,
	)
	ErrReasonTooShort = apperror.New(
		"REASON_TOO_SHORT",
		"reason must be at least 10 characters",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		"LEAVE_NOT_FOUND",
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"leave request is not pending",
		http.StatusConflict,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requesting employee may cancel this leave request",
		http.StatusForbidden,
	)
)
