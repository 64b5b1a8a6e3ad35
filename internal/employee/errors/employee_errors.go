package employeeerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		"EMPLOYEE_NOT_FOUND",
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee with this email already exists",
		http.StatusConflict,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidApproverID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid approver_id",
		http.StatusBadRequest,
	)
	ErrApproverNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"approver does not belong to this company",
		http.StatusBadRequest,
	)
)
