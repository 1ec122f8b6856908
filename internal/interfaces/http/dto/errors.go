package dto

import (
	"net/http"

	"github.com/haccp/backend/internal/domain/shared"
)

// Transport-only error codes. Domain codes come from the shared package.
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeRouteMissing = "ROUTE_NOT_FOUND"
)

var errorCodeHTTPStatus = map[string]int{
	shared.CodeNotFound:           http.StatusNotFound,
	shared.CodeInvalidInput:       http.StatusBadRequest,
	shared.CodeInsufficientStock:  http.StatusUnprocessableEntity,
	shared.CodeInvalidState:       http.StatusUnprocessableEntity,
	shared.CodeConflict:           http.StatusConflict,
	shared.CodeAlreadyExists:      http.StatusConflict,
	shared.CodeOptimisticLock:     http.StatusConflict,
	shared.CodeConcurrentConflict: http.StatusConflict,
	shared.CodeUnauthorized:       http.StatusUnauthorized,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeRouteMissing: http.StatusNotFound,
}

// HTTPStatus returns the status for an error code, 500 when unknown
func HTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
