package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

type statusCode struct {
	status int
	code   string
}

// kindStatus maps each error kind onto its HTTP status and error code.
var kindStatus = map[error]statusCode{
	ErrAuthenticationRequired: {http.StatusUnauthorized, ErrCodeUnauthorized},
	ErrInsufficientPermission: {http.StatusForbidden, ErrCodeForbidden},
	ErrNotFound:               {http.StatusNotFound, ErrCodeNotFound},
	ErrValidation:             {http.StatusBadRequest, ErrCodeInvalidInput},
	ErrConflict:               {http.StatusConflict, ErrCodeConflict},
	ErrUnavailable:            {http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, status int, err *APIError) {
	c.JSON(status, err)
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIErrorWithDetails(ErrCodeInternalError, message, nil))
}
