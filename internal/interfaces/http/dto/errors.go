package dto

import "net/http"

// Domain error codes surfaced over HTTP. These match the codes carried by
// shared.DomainError.
const (
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeNumberingConflict   = "NUMBERING_CONFLICT"
	ErrCodeStorageUnavailable  = "STORAGE_UNAVAILABLE"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeInternal            = "INTERNAL"
)

// Transport-level error codes produced by the HTTP layer itself
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidToken = "INVALID_TOKEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeRateLimited  = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// UNAUTHORIZED is a cross-tenant ownership failure on an authenticated
// request, hence 403; missing or broken credentials map to 401 via the
// token codes.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidationFailed:    http.StatusBadRequest,
	ErrCodeUnauthorized:        http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeNumberingConflict:   http.StatusServiceUnavailable,
	ErrCodeStorageUnavailable:  http.StatusServiceUnavailable,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInternal:            http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidToken: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for codes not in the table
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
