package leaveerrors

import (
	"net/http"

	"shiftleave/internal/shared/apperror"
)

var (
	ErrInvalidShift = apperror.New(
		apperror.CodeInvalidInput,
		"invalid shift, expected SHIFT1, SHIFT2 or NIGHT",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year or month",
		http.StatusBadRequest,
	)
	ErrDuplicateRequest = apperror.New(
		apperror.CodeConflict,
		"you already have a leave request for this date and shift",
		http.StatusConflict,
	)
	ErrCapacityExceeded = apperror.New(
		apperror.CodeCapacityExceeded,
		"no available slots for this shift on this date",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"you can only access your own leave requests",
		http.StatusForbidden,
	)
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"only admins can perform this action",
		http.StatusForbidden,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been decided",
		http.StatusBadRequest,
	)
)
