package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pms-api/internal/constants"
	"github.com/yukikurage/pms-api/internal/dto"
	apierrors "github.com/yukikurage/pms-api/internal/errors"
	"github.com/yukikurage/pms-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an Employee-role user with its employee profile and
// initializes the session.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if !h.startSession(c, result.User.ID) {
		return
	}
	c.JSON(http.StatusCreated, dto.ToAuthResponse(result.Token, *result.User, result.Employee))
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	if !h.startSession(c, result.User.ID) {
		return
	}
	c.JSON(http.StatusOK, dto.ToAuthResponse(result.Token, *result.User, result.Employee))
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user with the linked employee.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMeDTO(*user, actor.Employee))
}

func (h *AuthHandler) startSession(c *gin.Context, userID string) bool {
	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, userID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}
