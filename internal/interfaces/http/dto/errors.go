package dto

import (
	"net/http"

	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
)

// Transport-only error codes. Domain codes come from shared.Code*.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNoRoute    = "ROUTE_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest:     http.StatusBadRequest,

	shared.CodeUnauthorized: http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,

	shared.CodeNotFound: http.StatusNotFound,
	ErrCodeNoRoute:      http.StatusNotFound,

	shared.CodeAlreadyExists:    http.StatusConflict,
	shared.CodeDuplicateRequest: http.StatusConflict,
	shared.CodeConcurrency:      http.StatusConflict,

	shared.CodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are treated as internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
