package middleware

import (
	"context"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/auth"
	"github.com/yukikurage/pms-api/internal/constants"
	apierrors "github.com/yukikurage/pms-api/internal/errors"
	"github.com/yukikurage/pms-api/internal/logger"
)

// ActorResolver builds the actor for an authenticated user id.
type ActorResolver interface {
	Resolve(ctx context.Context, userID string) (*access.Actor, error)
}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth authenticates the request by bearer token or session cookie and
// attaches the resolved actor to both the gin and the request context.
func RequireAuth(resolver ActorResolver, tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := credentialUserID(c, tokens)
		if !ok {
			apierrors.Respond(c, access.ErrNotAuthenticated)
			c.Abort()
			return
		}

		actor, err := resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}

		ctx := access.WithActor(c.Request.Context(), actor)
		ctx = logger.WithLogger(ctx, map[string]interface{}{
			"user_id": actor.UserID,
			"role":    string(actor.Role),
		})
		c.Request = c.Request.WithContext(ctx)

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, actor.UserID)
		c.Set(constants.ContextKeyActor, actor)
		c.Next()
	}
}

// credentialUserID reads the user id from a bearer token first, then from
// the session.
func credentialUserID(c *gin.Context, tokens TokenVerifier) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokens == nil {
			return "", false
		}
		claims, err := tokens.Verify(strings.TrimSpace(raw))
		if err != nil {
			return "", false
		}
		return claims.Subject, true
	}

	session := sessions.Default(c)
	userID, ok := session.Get(constants.ContextKeyUserID).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// GetActor retrieves the current actor from context
func GetActor(c *gin.Context) (*access.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*access.Actor)
	return actor, ok && actor != nil
}
