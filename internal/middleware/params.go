package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apierrors "github.com/yukikurage/pms-api/internal/errors"
)

// RequireUUIDParam rejects requests whose path parameter is not a UUID.
func RequireUUIDParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := uuid.Parse(c.Param(name)); err != nil {
			apierrors.Respond(c, apierrors.NewValidation(
				fmt.Sprintf("Invalid %s", name),
				apierrors.FieldError{Field: name, Message: "must be a UUID"},
			))
			c.Abort()
			return
		}
		c.Next()
	}
}
