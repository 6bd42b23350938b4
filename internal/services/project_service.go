package services

import (
	"context"
	"strings"
	"time"

	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/aggregate"
	"github.com/yukikurage/pms-api/internal/logger"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/repository"
	"github.com/yukikurage/pms-api/internal/utils"
)

// ProjectService handles project business logic
type ProjectService struct {
	projects   repository.ProjectRepository
	employees  repository.EmployeeRepository
	timesheets repository.TimesheetRepository
	timelogs   repository.TimelogRepository
	tx         repository.TxManager
	access     *access.Engine
	totals     *aggregate.Engine
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projects repository.ProjectRepository,
	employees repository.EmployeeRepository,
	timesheets repository.TimesheetRepository,
	timelogs repository.TimelogRepository,
	tx repository.TxManager,
	engine *access.Engine,
	totals *aggregate.Engine,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		employees:  employees,
		timesheets: timesheets,
		timelogs:   timelogs,
		tx:         tx,
		access:     engine,
		totals:     totals,
	}
}

// ListProjectsInput represents filters for listing projects
type ListProjectsInput struct {
	Status     *models.ProjectStatus
	Pagination utils.PaginationParams
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description *string
	PMID        *string
	Status      models.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateProjectInput represents input for updating a project. An empty PMID
// clears the project manager; PMs cannot change it.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	PMID        *string
	Status      *models.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *ProjectService) List(ctx context.Context, actor *access.Actor, input ListProjectsInput) ([]models.Project, int64, error) {
	decision, err := s.access.Authorize(ctx, actor, access.ResourceProject, access.OpList)
	if err != nil {
		return nil, 0, err
	}

	projects, total, err := s.projects.List(ctx, repository.ProjectFilter{
		Scope:      scopeOf(decision),
		Status:     input.Status,
		Pagination: &input.Pagination,
	})
	if err != nil {
		return nil, 0, storeError(err, nil, "list projects")
	}
	return projects, total, nil
}

func (s *ProjectService) Get(ctx context.Context, actor *access.Actor, id string) (*models.Project, error) {
	if _, err := s.access.Check(ctx, actor, access.ResourceProject, access.OpGet, id); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, id)
	return findOr(project, err, ErrProjectNotFound, "find project")
}

// Create creates a project. A PM always becomes the project's manager,
// whatever the input says.
func (s *ProjectService) Create(ctx context.Context, actor *access.Actor, input CreateProjectInput) (*models.Project, error) {
	decision, err := s.access.Authorize(ctx, actor, access.ResourceProject, access.OpCreate)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}
	if input.Status == "" {
		input.Status = models.ProjectStatusPlanning
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidProjectStatus
	}
	if err := validateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	pmID := normalizeRef(input.PMID)
	if !decision.Unrestricted {
		self := decision.EmployeeID
		pmID = &self
	} else if pmID != nil {
		if _, err := s.employees.FindByID(ctx, *pmID); err != nil {
			return nil, storeError(err, ErrProjectManagerNotFound, "find project manager")
		}
	}

	project := &models.Project{
		Name:        name,
		Description: normalizeRef(input.Description),
		PMID:        pmID,
		Status:      input.Status,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, storeError(err, nil, "create project")
	}

	logger.InfoLog(ctx, "project %s created by %s", project.ID, actor.UserID)
	return s.projects.FindByID(ctx, project.ID)
}

func (s *ProjectService) Update(ctx context.Context, actor *access.Actor, id string, input UpdateProjectInput) (*models.Project, error) {
	decision, err := s.access.Check(ctx, actor, access.ResourceProject, access.OpUpdate, id)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, ErrProjectNotFound, "find project")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = normalizeRef(input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidProjectStatus
		}
		project.Status = *input.Status
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}
	if err := validateDateRange(project.StartDate, project.EndDate); err != nil {
		return nil, err
	}

	if input.PMID != nil && decision.Unrestricted {
		pmID := normalizeRef(input.PMID)
		if pmID != nil {
			if _, err := s.employees.FindByID(ctx, *pmID); err != nil {
				return nil, storeError(err, ErrProjectManagerNotFound, "find project manager")
			}
		}
		project.PMID = pmID
	}

	project.PM = nil
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, storeError(err, nil, "update project")
	}
	return s.projects.FindByID(ctx, id)
}

// Delete removes a project with its tasks and their timelogs, then
// recomputes the totals of every timesheet that lost timelogs.
func (s *ProjectService) Delete(ctx context.Context, actor *access.Actor, id string) error {
	if _, err := s.access.Check(ctx, actor, access.ResourceProject, access.OpDelete, id); err != nil {
		return err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		tasks, err := s.access.Graph().TasksOfProjects(ctx, access.NewIDSet(id))
		if err != nil {
			return err
		}
		affected, err := s.timelogs.TimesheetIDsByTasks(ctx, tasks.Slice())
		if err != nil {
			return err
		}
		if err := s.timesheets.LockByIDs(ctx, affected); err != nil {
			return err
		}
		if err := s.projects.Delete(ctx, id); err != nil {
			return err
		}
		return s.totals.RecomputeAll(ctx, affected)
	})
	if err != nil {
		return storeError(err, ErrProjectNotFound, "delete project")
	}

	logger.InfoLog(ctx, "project %s deleted by %s", id, actor.UserID)
	return nil
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return ErrInvalidDateRange
	}
	return nil
}
