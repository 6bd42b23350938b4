package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/auth"
	"github.com/yukikurage/pms-api/internal/constants"
	"github.com/yukikurage/pms-api/internal/models"
)

type stubResolver struct {
	actors map[string]*access.Actor
}

func (r stubResolver) Resolve(_ context.Context, userID string) (*access.Actor, error) {
	actor, ok := r.actors[userID]
	if !ok {
		return nil, access.ErrUnknownUser
	}
	return actor, nil
}

type stubTokens map[string]string

func (s stubTokens) Verify(token string) (*auth.Claims, error) {
	userID, ok := s[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	claims := &auth.Claims{}
	claims.Subject = userID
	return claims, nil
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	resolver := stubResolver{actors: map[string]*access.Actor{
		"user-1": {UserID: "user-1", Username: "alice", Role: models.RoleAdmin},
	}}
	tokens := stubTokens{"good-token": "user-1", "stale-token": "user-2"}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.GET("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, c.Query("user"))
		if err := session.Save(); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/private", RequireAuth(resolver, tokens), func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		fromCtx, _ := access.ActorFromContext(c.Request.Context())
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "same": fromCtx == actor})
	})
	return r
}

func TestRequireAuth_Bearer(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"user-1","same":true}`, w.Body.String())
}

func TestRequireAuth_Rejects(t *testing.T) {
	r := newAuthRouter()

	tests := []struct {
		name   string
		header string
	}{
		{name: "no credentials"},
		{name: "unknown token", header: "Bearer bad-token"},
		{name: "wrong scheme", header: "Basic good-token"},
		{name: "deleted user", header: "Bearer stale-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireAuth_Session(t *testing.T) {
	r := newAuthRouter()

	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login?user=user-1", nil))
	require.Equal(t, http.StatusNoContent, login.Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}
