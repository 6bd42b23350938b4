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

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all tasks accessible by the current user
// Can filter by project_id, assignee_id and status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	input := services.ListTasksInput{
		ProjectID:  queryRef(c, "project_id"),
		AssigneeID: queryRef(c, "assignee_id"),
		Pagination: utils.GetPaginationParams(c),
	}
	if status := queryRef(c, "status"); status != nil {
		s := models.TaskStatus(*status)
		input.Status = &s
	}

	tasks, total, err := h.taskService.List(c.Request.Context(), actor, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	listResponse(c, "tasks", dto.ToTaskDTOs(tasks), input.Pagination, total)
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		ProjectID   string              `json:"project_id" binding:"required"`
		Title       string              `json:"title" binding:"required,max=200"`
		Description *string             `json:"description"`
		AssigneeID  *string             `json:"assignee_id"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		DueDate     *string             `json:"due_date"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	dueDate, _, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), actor, services.CreateTaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask updates an existing task. "due_date": "" clears the due date and
// "assignee_id": "" unassigns the task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		ProjectID   *string              `json:"project_id"`
		Title       *string              `json:"title" binding:"omitempty,max=200"`
		Description *string              `json:"description"`
		AssigneeID  *string              `json:"assignee_id"`
		Status      *models.TaskStatus   `json:"status"`
		Priority    *models.TaskPriority `json:"priority"`
		DueDate     *string              `json:"due_date"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	dueDate, clearDueDate, err := parseOptionalDate("due_date", req.DueDate)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), actor, c.Param("id"), services.UpdateTaskInput{
		ProjectID:    req.ProjectID,
		Title:        req.Title,
		Description:  req.Description,
		AssigneeID:   req.AssigneeID,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      dueDate,
		ClearDueDate: clearDueDate,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// GenerateTasks drafts tasks for a project from free text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req GenerateTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), actor, c.Param("id"), req.Text)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"count": len(tasks),
	})
}
