package shiftconfigerrors

import (
	"net/http"

	"shiftleave/internal/shared/apperror"
)

var (
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"only admins can modify configuration",
		http.StatusForbidden,
	)
	ErrInvalidLimit = apperror.New(
		apperror.CodeInvalidInput,
		"shift limit must be zero or positive",
		http.StatusBadRequest,
	)
	ErrInvalidActiveDays = apperror.New(
		apperror.CodeInvalidInput,
		"active days must be weekdays between 0 and 6",
		http.StatusBadRequest,
	)
)
