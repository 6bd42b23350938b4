package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/pms-api/internal/logger"
)

// Error kinds. Every DomainError unwraps to exactly one of these.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrInsufficientPermission = errors.New("insufficient permission")
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrConflict               = errors.New("conflict")
	ErrUnavailable            = errors.New("unavailable")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DomainError is a typed failure raised by services and the access layer.
// The message is stable and safe to return to clients.
type DomainError struct {
	kind    error
	Message string
	Details []FieldError
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.kind
}

// Kind returns the sentinel kind of the error.
func (e *DomainError) Kind() error {
	return e.kind
}

// WithDetails returns a copy of e carrying field details.
func (e *DomainError) WithDetails(details ...FieldError) *DomainError {
	return &DomainError{kind: e.kind, Message: e.Message, Details: details}
}

func NewUnauthenticated(message string) *DomainError {
	return &DomainError{kind: ErrAuthenticationRequired, Message: message}
}

func NewForbidden(message string) *DomainError {
	return &DomainError{kind: ErrInsufficientPermission, Message: message}
}

func NewNotFound(message string) *DomainError {
	return &DomainError{kind: ErrNotFound, Message: message}
}

func NewValidation(message string, details ...FieldError) *DomainError {
	return &DomainError{kind: ErrValidation, Message: message, Details: details}
}

func NewConflict(message string) *DomainError {
	return &DomainError{kind: ErrConflict, Message: message}
}

func NewUnavailable(message string) *DomainError {
	return &DomainError{kind: ErrUnavailable, Message: message}
}

// Respond writes err as a JSON error response. Untyped errors are logged and
// reported as 500 without leaking their text.
func Respond(c *gin.Context, err error) {
	var de *DomainError
	if !errors.As(err, &de) {
		logger.ErrorErr(c.Request.Context(), err, "unhandled error")
		InternalError(c, "")
		return
	}

	var details interface{}
	if len(de.Details) > 0 {
		details = de.Details
	}

	sc, ok := kindStatus[de.kind]
	if !ok {
		logger.ErrorErr(c.Request.Context(), err, "unknown error kind")
		InternalError(c, "")
		return
	}
	RespondWithError(c, sc.status, NewAPIErrorWithDetails(sc.code, de.Message, details))
}

// FromBinding converts a gin binding failure into a validation error with
// one detail per offending field.
func FromBinding(err error) *DomainError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidation("Invalid request body")
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field:   toSnakeCase(fe.Field()),
			Message: describeTag(fe),
		})
	}
	return NewValidation("Validation failed", details...)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
