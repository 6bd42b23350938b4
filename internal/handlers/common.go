package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pms-api/internal/access"
	apierrors "github.com/yukikurage/pms-api/internal/errors"
	"github.com/yukikurage/pms-api/internal/middleware"
	"github.com/yukikurage/pms-api/internal/utils"
)

// currentActor returns the authenticated actor or writes a 401.
func currentActor(c *gin.Context) (*access.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Respond(c, access.ErrNotAuthenticated)
		return nil, false
	}
	return actor, true
}

// bindJSON binds the request body or writes a 400 with field details.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		apierrors.Respond(c, apierrors.FromBinding(err))
		return false
	}
	return true
}

// queryRef returns the query parameter, nil when absent or blank.
func queryRef(c *gin.Context, name string) *string {
	value, ok := c.GetQuery(name)
	if !ok || value == "" {
		return nil
	}
	return &value
}

// listResponse writes the paginated list envelope.
func listResponse(c *gin.Context, key string, items interface{}, params utils.PaginationParams, total int64) {
	c.JSON(http.StatusOK, gin.H{
		key:          items,
		"pagination": params.Response(total),
	})
}

func invalidDate(field string) error {
	return apierrors.NewValidation("Invalid date", apierrors.FieldError{
		Field:   field,
		Message: "must be a date in YYYY-MM-DD format",
	})
}

// parseDate parses a required date field.
func parseDate(field, value string) (time.Time, error) {
	t, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, invalidDate(field)
	}
	return t, nil
}

// parseOptionalDate parses an optional date field. An empty string reports
// cleared as true.
func parseOptionalDate(field string, value *string) (t *time.Time, cleared bool, err error) {
	if value == nil {
		return nil, false, nil
	}
	if *value == "" {
		return nil, true, nil
	}
	parsed, err := utils.ParseDate(*value)
	if err != nil {
		return nil, false, invalidDate(field)
	}
	return &parsed, false, nil
}
