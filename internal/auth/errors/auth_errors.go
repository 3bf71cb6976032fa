package autherrors

import (
	"net/http"

	"shiftleave/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New("AUTH_FAILED", "email atau password salah", http.StatusUnauthorized)

	ErrEmailAlreadyRegistered = apperror.New(apperror.CodeConflict, "email sudah terdaftar", http.StatusConflict)

	ErrInvalidToken = apperror.New("INVALID_TOKEN", "token tidak valid", http.StatusUnauthorized)

	ErrTokenExpired = apperror.New("TOKEN_EXPIRED", "token sudah kedaluwarsa", http.StatusUnauthorized)

	ErrInvalidRefreshToken = apperror.New("INVALID_REFRESH_TOKEN", "refresh token tidak valid", http.StatusUnauthorized)

	ErrTokenGenerationFailed = apperror.New(apperror.CodeInternalError, "gagal membuat token", http.StatusInternalServerError)

	ErrInvalidUserID = apperror.New(apperror.CodeInvalidInput, "user id tidak valid", http.StatusBadRequest)

	ErrUserNotFound = apperror.New(apperror.CodeNotFound, "user tidak ditemukan", http.StatusNotFound)
)
