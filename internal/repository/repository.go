package repository

import (
	"context"

	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/utils"
)

// IDScope restricts a listing to a fixed id set when Restricted is true.
// A restricted scope with no ids matches nothing.
type IDScope struct {
	Restricted bool
	IDs        []string
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// List retrieves users with pagination
	List(ctx context.Context, page *utils.PaginationParams) ([]models.User, int64, error)

	// Update updates a user
	Update(ctx context.Context, user *models.User) error

	// Delete deletes a user; the linked employee is removed by cascade
	Delete(ctx context.Context, id string) error
}

// EmployeeFilter holds filtering options for listing employees
type EmployeeFilter struct {
	Scope      IDScope
	ManagerID  *string
	Pagination *utils.PaginationParams
}

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	// FindByUserID finds the employee linked to a user
	FindByUserID(ctx context.Context, userID string) (*models.Employee, error)
	// FindForUpdate loads an employee and locks its row until the surrounding
	// transaction ends
	FindForUpdate(ctx context.Context, id string) (*models.Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id string) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	Scope      IDScope
	Status     *models.ProjectStatus
	Pagination *utils.PaginationParams
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Scope      IDScope
	ProjectID  *string
	AssigneeID *string
	Status     *models.TaskStatus
	Pagination *utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	// CreateBatch inserts several tasks in one statement
	CreateBatch(ctx context.Context, tasks []models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
}

// TimesheetFilter holds filtering options for listing timesheets
type TimesheetFilter struct {
	Scope      IDScope
	EmployeeID *string
	Status     *models.TimesheetStatus
	Pagination *utils.PaginationParams
	// WithEmployee preloads the owning employee
	WithEmployee bool
}

// TimesheetRepository defines the interface for timesheet data access
type TimesheetRepository interface {
	Create(ctx context.Context, timesheet *models.Timesheet) error
	FindByID(ctx context.Context, id string) (*models.Timesheet, error)

	// FindForUpdate loads a timesheet and locks its row until the surrounding
	// transaction ends
	FindForUpdate(ctx context.Context, id string) (*models.Timesheet, error)

	// LockByIDs locks the given timesheet rows in id order
	LockByIDs(ctx context.Context, ids []string) error

	List(ctx context.Context, filter TimesheetFilter) ([]models.Timesheet, int64, error)

	// Update writes the given columns of timesheet
	Update(ctx context.Context, timesheet *models.Timesheet, columns ...string) error
	Delete(ctx context.Context, id string) error

	// SumHours returns the sum of hours over the timesheet's timelogs, 0 when none
	SumHours(ctx context.Context, timesheetID string) (float64, error)

	// SetTotalHours overwrites the stored total
	SetTotalHours(ctx context.Context, timesheetID string, total float64) error
}

// TimelogFilter holds filtering options for listing timelogs
type TimelogFilter struct {
	Scope       IDScope
	TimesheetID *string
	TaskID      *string
	Pagination  *utils.PaginationParams
}

// TimelogRepository defines the interface for timelog data access
type TimelogRepository interface {
	Create(ctx context.Context, timelog *models.Timelog) error
	FindByID(ctx context.Context, id string) (*models.Timelog, error)
	List(ctx context.Context, filter TimelogFilter) ([]models.Timelog, int64, error)
	Update(ctx context.Context, timelog *models.Timelog) error
	Delete(ctx context.Context, id string) error

	// TimesheetIDsByTasks lists the distinct timesheets holding timelogs of the given tasks
	TimesheetIDsByTasks(ctx context.Context, taskIDs []string) ([]string, error)
}

// OwnershipRepository answers the id lookups behind the ownership graph
type OwnershipRepository interface {
	EmployeeIDsByManager(ctx context.Context, managerID string) ([]string, error)
	ProjectIDsByPM(ctx context.Context, pmID string) ([]string, error)
	TaskIDsByProjects(ctx context.Context, projectIDs []string) ([]string, error)
	TaskIDsByAssignee(ctx context.Context, employeeID string) ([]string, error)
	TimesheetIDsByEmployees(ctx context.Context, employeeIDs []string) ([]string, error)
	TimelogIDsByEmployees(ctx context.Context, employeeIDs []string) ([]string, error)

	// ManagerIDOf returns the employee's manager id, nil when it has none.
	// gorm.ErrRecordNotFound is returned for an unknown employee.
	ManagerIDOf(ctx context.Context, employeeID string) (*string, error)
}
