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

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects returns the projects visible to the caller. Can filter by status
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	input := services.ListProjectsInput{Pagination: utils.GetPaginationParams(c)}
	if status := queryRef(c, "status"); status != nil {
		s := models.ProjectStatus(*status)
		input.Status = &s
	}

	projects, total, err := h.projectService.List(c.Request.Context(), actor, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	listResponse(c, "projects", dto.ToProjectDTOs(projects), input.Pagination, total)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// CreateProject creates a project. For PMs pm_id is always the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Name        string               `json:"name" binding:"required,max=200"`
		Description *string              `json:"description"`
		PMID        *string              `json:"pm_id"`
		Status      models.ProjectStatus `json:"status"`
		StartDate   *string              `json:"start_date"`
		EndDate     *string              `json:"end_date"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	startDate, _, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	endDate, _, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), actor, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		PMID:        req.PMID,
		Status:      req.Status,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name        *string               `json:"name" binding:"omitempty,max=200"`
		Description *string               `json:"description"`
		PMID        *string               `json:"pm_id"`
		Status      *models.ProjectStatus `json:"status"`
		StartDate   *string               `json:"start_date"`
		EndDate     *string               `json:"end_date"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	startDate, _, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	endDate, _, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), actor, c.Param("id"), services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		PMID:        req.PMID,
		Status:      req.Status,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project with its tasks and their timelogs.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
