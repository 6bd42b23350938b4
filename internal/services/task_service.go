package services

import (
	"context"
	"strings"
	"time"

	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/aggregate"
	"github.com/yukikurage/pms-api/internal/constants"
	"github.com/yukikurage/pms-api/internal/logger"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/repository"
	"github.com/yukikurage/pms-api/internal/utils"
)

// TaskService handles task business logic
type TaskService struct {
	tasks      repository.TaskRepository
	projects   repository.ProjectRepository
	employees  repository.EmployeeRepository
	timesheets repository.TimesheetRepository
	timelogs   repository.TimelogRepository
	tx         repository.TxManager
	access     *access.Engine
	totals     *aggregate.Engine
	aiService  *AIService
}

// TaskServiceDeps groups the collaborators of a TaskService
type TaskServiceDeps struct {
	Tasks      repository.TaskRepository
	Projects   repository.ProjectRepository
	Employees  repository.EmployeeRepository
	Timesheets repository.TimesheetRepository
	Timelogs   repository.TimelogRepository
	Tx         repository.TxManager
	Access     *access.Engine
	Totals     *aggregate.Engine
	// AI is optional; task generation answers 503 without it
	AI *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(deps TaskServiceDeps) *TaskService {
	return &TaskService{
		tasks:      deps.Tasks,
		projects:   deps.Projects,
		employees:  deps.Employees,
		timesheets: deps.Timesheets,
		timelogs:   deps.Timelogs,
		tx:         deps.Tx,
		access:     deps.Access,
		totals:     deps.Totals,
		aiService:  deps.AI,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ProjectID  *string
	AssigneeID *string
	Status     *models.TaskStatus
	Pagination utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID   string
	Title       string
	Description *string
	AssigneeID  *string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
}

// UpdateTaskInput represents input for updating a task. An empty AssigneeID
// unassigns the task.
type UpdateTaskInput struct {
	ProjectID    *string
	Title        *string
	Description  *string
	AssigneeID   *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
}

func (s *TaskService) List(ctx context.Context, actor *access.Actor, input ListTasksInput) ([]models.Task, int64, error) {
	decision, err := s.access.Authorize(ctx, actor, access.ResourceTask, access.OpList)
	if err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.tasks.List(ctx, repository.TaskFilter{
		Scope:      scopeOf(decision),
		ProjectID:  input.ProjectID,
		AssigneeID: input.AssigneeID,
		Status:     input.Status,
		Pagination: &input.Pagination,
	})
	if err != nil {
		return nil, 0, storeError(err, nil, "list tasks")
	}
	return tasks, total, nil
}

func (s *TaskService) Get(ctx context.Context, actor *access.Actor, id string) (*models.Task, error) {
	if _, err := s.access.Check(ctx, actor, access.ResourceTask, access.OpGet, id); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, id)
	return findOr(task, err, ErrTaskNotFound, "find task")
}

// Create creates a task. A PM may only create tasks under projects they manage.
func (s *TaskService) Create(ctx context.Context, actor *access.Actor, input CreateTaskInput) (*models.Task, error) {
	decision, err := s.access.Authorize(ctx, actor, access.ResourceTask, access.OpCreate)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if err := s.ensureProject(ctx, decision, input.ProjectID); err != nil {
		return nil, err
	}
	assigneeID, err := s.ensureAssignee(ctx, input.AssigneeID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:   input.ProjectID,
		Title:       title,
		Description: normalizeRef(input.Description),
		AssigneeID:  assigneeID,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, storeError(err, nil, "create task")
	}

	logger.InfoLog(ctx, "task %s created in project %s", task.ID, task.ProjectID)
	return s.tasks.FindByID(ctx, task.ID)
}

func (s *TaskService) Update(ctx context.Context, actor *access.Actor, id string, input UpdateTaskInput) (*models.Task, error) {
	decision, err := s.access.Check(ctx, actor, access.ResourceTask, access.OpUpdate, id)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, ErrTaskNotFound, "find task")
	}

	if input.ProjectID != nil && *input.ProjectID != task.ProjectID {
		if err := s.ensureProject(ctx, decision, *input.ProjectID); err != nil {
			return nil, err
		}
		task.ProjectID = *input.ProjectID
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = normalizeRef(input.Description)
	}
	if input.AssigneeID != nil {
		assigneeID, err := s.ensureAssignee(ctx, input.AssigneeID)
		if err != nil {
			return nil, err
		}
		task.AssigneeID = assigneeID
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	task.Project = nil
	task.Assignee = nil
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, storeError(err, nil, "update task")
	}
	return s.tasks.FindByID(ctx, id)
}

// Delete removes a task and its timelogs, then recomputes the totals of the
// timesheets those timelogs belonged to.
func (s *TaskService) Delete(ctx context.Context, actor *access.Actor, id string) error {
	if _, err := s.access.Check(ctx, actor, access.ResourceTask, access.OpDelete, id); err != nil {
		return err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		affected, err := s.timelogs.TimesheetIDsByTasks(ctx, []string{id})
		if err != nil {
			return err
		}
		if err := s.timesheets.LockByIDs(ctx, affected); err != nil {
			return err
		}
		if err := s.tasks.Delete(ctx, id); err != nil {
			return err
		}
		return s.totals.RecomputeAll(ctx, affected)
	})
	if err != nil {
		return storeError(err, ErrTaskNotFound, "delete task")
	}

	logger.InfoLog(ctx, "task %s deleted by %s", id, actor.UserID)
	return nil
}

// GenerateTasks asks the AI service for task drafts from free text and stores
// the valid ones under the project.
func (s *TaskService) GenerateTasks(ctx context.Context, actor *access.Actor, projectID, text string) ([]models.Task, error) {
	decision, err := s.access.Authorize(ctx, actor, access.ResourceTask, access.OpCreate)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProject(ctx, decision, projectID); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, storeError(err, ErrProjectNotFound, "find project")
	}

	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	drafts, err := s.aiService.GenerateTaskDrafts(ctx, project.Name, text)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}

	tasks := make([]models.Task, 0, len(drafts))
	for _, draft := range drafts {
		if len(tasks) == constants.MaxAIGeneratedTasks {
			break
		}
		task, ok := draftToTask(projectID, draft)
		if !ok {
			logger.WarnLog(ctx, "skipping AI task draft with empty title")
			continue
		}
		tasks = append(tasks, task)
	}
	if len(tasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	if err := s.tasks.CreateBatch(ctx, tasks); err != nil {
		return nil, storeError(err, nil, "create generated tasks")
	}

	logger.InfoLog(ctx, "generated %d tasks for project %s", len(tasks), projectID)
	return tasks, nil
}

// ensureProject checks that tasks may be placed under projectID. Scoped
// actors get 403 for any project they do not manage.
func (s *TaskService) ensureProject(ctx context.Context, decision access.Decision, projectID string) error {
	if !decision.AllowsProject(projectID) {
		return ErrProjectNotManaged
	}
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return storeError(err, ErrProjectNotFound, "find project")
	}
	return nil
}

func (s *TaskService) ensureAssignee(ctx context.Context, assigneeID *string) (*string, error) {
	id := normalizeRef(assigneeID)
	if id == nil {
		return nil, nil
	}
	if _, err := s.employees.FindByID(ctx, *id); err != nil {
		return nil, storeError(err, ErrAssigneeNotFound, "find assignee")
	}
	return id, nil
}

func draftToTask(projectID string, draft TaskDraft) (models.Task, bool) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return models.Task{}, false
	}

	task := models.Task{
		ProjectID:   projectID,
		Title:       title,
		Description: normalizeRef(&draft.Description),
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriority(draft.Priority),
	}
	if !task.Priority.Valid() {
		task.Priority = models.TaskPriorityMedium
	}
	if draft.DueDate != nil {
		if due, err := utils.ParseDate(*draft.DueDate); err == nil {
			task.DueDate = &due
		}
	}
	return task, true
}
