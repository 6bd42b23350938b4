package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/aggregate"
	"github.com/yukikurage/pms-api/internal/auth"
	"github.com/yukikurage/pms-api/internal/constants"
	"github.com/yukikurage/pms-api/internal/database"
	"github.com/yukikurage/pms-api/internal/middleware"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/repository"
	"github.com/yukikurage/pms-api/internal/services"
	"gorm.io/gorm"
)

// testServer is the full API router over an in-memory sqlite database.
type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	tokens *auth.TokenManager

	users     repository.UserRepository
	employees repository.EmployeeRepository
	projects  repository.ProjectRepository
	tasks     repository.TaskRepository

	seq int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	users := repository.NewUserRepository(db)
	employees := repository.NewEmployeeRepository(db)
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	timesheets := repository.NewTimesheetRepository(db)
	timelogs := repository.NewTimelogRepository(db)
	tx := repository.NewTxManager(db)

	engine := access.NewEngine(access.DefaultPolicy, access.NewGraph(repository.NewOwnershipRepository(db)))
	resolver := access.NewIdentityResolver(users, employees)
	totals := aggregate.NewEngine(timesheets)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	h := Handlers{
		Auth:      NewAuthHandler(services.NewAuthService(users, employees, tx, tokens)),
		Users:     NewUserHandler(services.NewUserService(users, employees, tx, engine)),
		Employees: NewEmployeeHandler(services.NewEmployeeService(employees, users, tx, engine)),
		Projects:  NewProjectHandler(services.NewProjectService(projects, employees, timesheets, timelogs, tx, engine, totals)),
		Tasks: NewTaskHandler(services.NewTaskService(services.TaskServiceDeps{
			Tasks:      tasks,
			Projects:   projects,
			Employees:  employees,
			Timesheets: timesheets,
			Timelogs:   timelogs,
			Tx:         tx,
			Access:     engine,
			Totals:     totals,
		})),
		Timesheets: NewTimesheetHandler(
			services.NewTimesheetService(timesheets, employees, tx, engine),
			services.NewExportService(timesheets, engine),
		),
		Timelogs: NewTimelogHandler(services.NewTimelogService(services.TimelogServiceDeps{
			Timelogs:   timelogs,
			Timesheets: timesheets,
			Tasks:      tasks,
			Employees:  employees,
			Tx:         tx,
			Access:     engine,
			Totals:     totals,
		})),
	}

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r.Group("/api"), h, middleware.RequireAuth(resolver, tokens))

	return &testServer{
		t:         t,
		db:        db,
		router:    r,
		tokens:    tokens,
		users:     users,
		employees: employees,
		projects:  projects,
		tasks:     tasks,
	}
}

func (s *testServer) createUser(role models.Role) *models.User {
	s.t.Helper()
	s.seq++
	user := &models.User{
		Username:     fmt.Sprintf("user%03d", s.seq),
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	require.NoError(s.t, s.users.Create(context.Background(), user))
	return user
}

func (s *testServer) createEmployee(role models.Role, managerID *string) *models.Employee {
	s.t.Helper()
	user := s.createUser(role)
	employee := &models.Employee{UserID: user.ID, ManagerID: managerID, FirstName: user.Username, LastName: "Test"}
	require.NoError(s.t, s.employees.Create(context.Background(), employee))
	return employee
}

func (s *testServer) createProject(pmID *string) *models.Project {
	s.t.Helper()
	project := &models.Project{Name: "Project", PMID: pmID, Status: models.ProjectStatusPlanning}
	require.NoError(s.t, s.projects.Create(context.Background(), project))
	return project
}

func (s *testServer) createTask(projectID string, assigneeID *string) *models.Task {
	s.t.Helper()
	task := &models.Task{ProjectID: projectID, Title: "Task", AssigneeID: assigneeID, Status: models.TaskStatusTodo, Priority: models.TaskPriorityMedium}
	require.NoError(s.t, s.tasks.Create(context.Background(), task))
	return task
}

func (s *testServer) tokenFor(userID string) string {
	s.t.Helper()
	token, err := s.tokens.Issue(&models.User{ID: userID})
	require.NoError(s.t, err)
	return token
}

func (s *testServer) tokenForEmployee(employee *models.Employee) string {
	return s.tokenFor(employee.UserID)
}

// do sends a JSON request, authenticated when token is not empty.
func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}
