package services

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/aggregate"
	"github.com/yukikurage/pms-api/internal/auth"
	"github.com/yukikurage/pms-api/internal/database"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/repository"
	"github.com/yukikurage/pms-api/internal/utils"
	"gorm.io/gorm"
)

// serviceSuite wires every service over an in-memory sqlite database.
type serviceSuite struct {
	suite.Suite
	ctx context.Context
	db  *gorm.DB

	users      repository.UserRepository
	employees  repository.EmployeeRepository
	projects   repository.ProjectRepository
	tasks      repository.TaskRepository
	timesheets repository.TimesheetRepository
	timelogs   repository.TimelogRepository

	tx       repository.TxManager
	resolver *access.IdentityResolver
	engine   *access.Engine

	authService      *AuthService
	userService      *UserService
	employeeService  *EmployeeService
	projectService   *ProjectService
	taskService      *TaskService
	timesheetService *TimesheetService
	timelogService   *TimelogService
	exportService    *ExportService

	seq int
}

func (s *serviceSuite) SetupTest() {
	var err error
	s.ctx = context.Background()

	s.db, err = database.OpenSQLite(":memory:")
	s.Require().NoError(err)
	s.Require().NoError(database.AutoMigrate(s.db))

	s.users = repository.NewUserRepository(s.db)
	s.employees = repository.NewEmployeeRepository(s.db)
	s.projects = repository.NewProjectRepository(s.db)
	s.tasks = repository.NewTaskRepository(s.db)
	s.timesheets = repository.NewTimesheetRepository(s.db)
	s.timelogs = repository.NewTimelogRepository(s.db)
	tx := repository.NewTxManager(s.db)
	s.tx = tx

	s.resolver = access.NewIdentityResolver(s.users, s.employees)
	s.engine = access.NewEngine(access.DefaultPolicy, access.NewGraph(repository.NewOwnershipRepository(s.db)))
	totals := aggregate.NewEngine(s.timesheets)

	s.authService = NewAuthService(s.users, s.employees, tx, auth.NewTokenManager("test-secret", time.Hour))
	s.userService = NewUserService(s.users, s.employees, tx, s.engine)
	s.employeeService = NewEmployeeService(s.employees, s.users, tx, s.engine)
	s.projectService = NewProjectService(s.projects, s.employees, s.timesheets, s.timelogs, tx, s.engine, totals)
	s.taskService = NewTaskService(TaskServiceDeps{
		Tasks:      s.tasks,
		Projects:   s.projects,
		Employees:  s.employees,
		Timesheets: s.timesheets,
		Timelogs:   s.timelogs,
		Tx:         tx,
		Access:     s.engine,
		Totals:     totals,
	})
	s.timesheetService = NewTimesheetService(s.timesheets, s.employees, tx, s.engine)
	s.timelogService = NewTimelogService(TimelogServiceDeps{
		Timelogs:   s.timelogs,
		Timesheets: s.timesheets,
		Tasks:      s.tasks,
		Employees:  s.employees,
		Tx:         tx,
		Access:     s.engine,
		Totals:     totals,
	})
	s.exportService = NewExportService(s.timesheets, s.engine)
	s.seq = 0
}

func (s *serviceSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *serviceSuite) nextName(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%03d", prefix, s.seq)
}

// createUser inserts a user without an employee profile.
func (s *serviceSuite) createUser(role models.Role) *models.User {
	user := &models.User{
		Username:     s.nextName("user"),
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	s.Require().NoError(s.users.Create(s.ctx, user))
	return user
}

// createEmployee inserts a user of role with a linked employee reporting to managerID.
func (s *serviceSuite) createEmployee(role models.Role, managerID *string) *models.Employee {
	user := s.createUser(role)
	employee := &models.Employee{
		UserID:    user.ID,
		ManagerID: managerID,
		FirstName: user.Username,
		LastName:  "Test",
	}
	s.Require().NoError(s.employees.Create(s.ctx, employee))
	return employee
}

func (s *serviceSuite) createProject(pmID *string) *models.Project {
	project := &models.Project{Name: s.nextName("project"), PMID: pmID, Status: models.ProjectStatusPlanning}
	s.Require().NoError(s.projects.Create(s.ctx, project))
	return project
}

func (s *serviceSuite) createTask(projectID string, assigneeID *string) *models.Task {
	task := &models.Task{
		ProjectID:  projectID,
		Title:      s.nextName("task"),
		AssigneeID: assigneeID,
		Status:     models.TaskStatusTodo,
		Priority:   models.TaskPriorityMedium,
	}
	s.Require().NoError(s.tasks.Create(s.ctx, task))
	return task
}

func (s *serviceSuite) createTimesheet(employeeID string) *models.Timesheet {
	timesheet := &models.Timesheet{
		EmployeeID:  employeeID,
		PeriodStart: s.date("2024-01-01"),
		PeriodEnd:   s.date("2024-01-07"),
		Status:      models.TimesheetStatusDraft,
	}
	s.Require().NoError(s.timesheets.Create(s.ctx, timesheet))
	return timesheet
}

func (s *serviceSuite) date(value string) time.Time {
	t, err := utils.ParseDate(value)
	s.Require().NoError(err)
	return t
}

func (s *serviceSuite) actorFor(userID string) *access.Actor {
	actor, err := s.resolver.Resolve(s.ctx, userID)
	s.Require().NoError(err)
	return actor
}

func (s *serviceSuite) employeeActor(employee *models.Employee) *access.Actor {
	return s.actorFor(employee.UserID)
}

func (s *serviceSuite) adminActor() *access.Actor {
	return s.actorFor(s.createUser(models.RoleAdmin).ID)
}

// storedTotal reads total_hours straight from the database.
func (s *serviceSuite) storedTotal(timesheetID string) float64 {
	timesheet, err := s.timesheets.FindByID(s.ctx, timesheetID)
	s.Require().NoError(err)
	return timesheet.TotalHours
}

func (s *serviceSuite) sumHours(timesheetID string) float64 {
	sum, err := s.timesheets.SumHours(s.ctx, timesheetID)
	s.Require().NoError(err)
	return aggregate.RoundHours(sum)
}

func ptr[T any](v T) *T {
	return &v
}

func taskIDs(tasks []models.Task) []string {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}
