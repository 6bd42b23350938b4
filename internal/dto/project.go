package dto

import (
	"time"

	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/utils"
)

// ProjectDTO represents a project in API responses. Dates use YYYY-MM-DD.
type ProjectDTO struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	PMID        *string              `json:"pm_id"`
	Status      models.ProjectStatus `json:"status"`
	StartDate   *string              `json:"start_date"`
	EndDate     *string              `json:"end_date"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	PM          *EmployeeSummaryDTO  `json:"pm,omitempty"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		PMID:        project.PMID,
		Status:      project.Status,
		StartDate:   utils.FormatOptionalDate(project.StartDate),
		EndDate:     utils.FormatOptionalDate(project.EndDate),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		PM:          toEmployeeSummary(project.PM),
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}
	return items
}
