package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pms-api/internal/dto"
	apierrors "github.com/yukikurage/pms-api/internal/errors"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/services"
	"github.com/yukikurage/pms-api/internal/utils"
)

// UserHandler serves the admin user management endpoints.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	users, total, err := h.userService.List(c.Request.Context(), actor, params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	listResponse(c, "users", dto.ToUserDTOs(users), params, total)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// CreateUser creates a user. Non-admin roles get a placeholder employee profile.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username string      `json:"username" binding:"required"`
		Password string      `json:"password" binding:"required"`
		Role     models.Role `json:"role" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), actor, services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Password *string      `json:"password"`
		Role     *models.Role `json:"role"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), actor, c.Param("id"), services.UpdateUserInput{
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.userService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
