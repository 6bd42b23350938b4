package dto

import (
	"time"

	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/utils"
)

// ProjectSummaryDTO is the short form of a project embedded in tasks
type ProjectSummaryDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"id"`
	ProjectID   string              `json:"project_id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	AssigneeID  *string             `json:"assignee_id"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *string             `json:"due_date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Project     *ProjectSummaryDTO  `json:"project,omitempty"`
	Assignee    *EmployeeSummaryDTO `json:"assignee,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		AssigneeID:  task.AssigneeID,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     utils.FormatOptionalDate(task.DueDate),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Assignee:    toEmployeeSummary(task.Assignee),
	}

	// Include project if preloaded
	if task.Project != nil {
		dto.Project = &ProjectSummaryDTO{ID: task.Project.ID, Name: task.Project.Name}
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
