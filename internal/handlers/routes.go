package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pms-api/internal/middleware"
)

// Handlers bundles the HTTP handlers mounted under /api.
type Handlers struct {
	Auth       *AuthHandler
	Users      *UserHandler
	Employees  *EmployeeHandler
	Projects   *ProjectHandler
	Tasks      *TaskHandler
	Timesheets *TimesheetHandler
	Timelogs   *TimelogHandler
}

// RegisterRoutes mounts every API route on api. requireAuth guards all routes
// except registration, login and logout.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, requireAuth gin.HandlerFunc) {
	requireID := middleware.RequireUUIDParam("id")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", requireAuth, h.Auth.GetCurrentUser)
	}

	users := api.Group("/users")
	users.Use(requireAuth)
	{
		users.GET("", h.Users.ListUsers)
		users.POST("", h.Users.CreateUser)
		users.GET("/:id", requireID, h.Users.GetUser)
		users.PUT("/:id", requireID, h.Users.UpdateUser)
		users.DELETE("/:id", requireID, h.Users.DeleteUser)
	}

	employees := api.Group("/employees")
	employees.Use(requireAuth)
	{
		employees.GET("", h.Employees.ListEmployees)
		employees.POST("", h.Employees.CreateEmployee)
		employees.GET("/:id", requireID, h.Employees.GetEmployee)
		employees.PUT("/:id", requireID, h.Employees.UpdateEmployee)
		employees.DELETE("/:id", requireID, h.Employees.DeleteEmployee)
	}

	projects := api.Group("/projects")
	projects.Use(requireAuth)
	{
		projects.GET("", h.Projects.ListProjects)
		projects.POST("", h.Projects.CreateProject)
		projects.GET("/:id", requireID, h.Projects.GetProject)
		projects.PUT("/:id", requireID, h.Projects.UpdateProject)
		projects.DELETE("/:id", requireID, h.Projects.DeleteProject)
		projects.POST("/:id/tasks/generate", requireID, h.Tasks.GenerateTasks)
	}

	tasks := api.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.GET("", h.Tasks.ListTasks)
		tasks.POST("", h.Tasks.CreateTask)
		tasks.GET("/:id", requireID, h.Tasks.GetTask)
		tasks.PUT("/:id", requireID, h.Tasks.UpdateTask)
		tasks.DELETE("/:id", requireID, h.Tasks.DeleteTask)
	}

	timesheets := api.Group("/timesheets")
	timesheets.Use(requireAuth)
	{
		timesheets.GET("", h.Timesheets.ListTimesheets)
		timesheets.POST("", h.Timesheets.CreateTimesheet)
		timesheets.GET("/export", h.Timesheets.ExportTimesheets)
		timesheets.GET("/:id", requireID, h.Timesheets.GetTimesheet)
		timesheets.PUT("/:id", requireID, h.Timesheets.UpdateTimesheet)
		timesheets.DELETE("/:id", requireID, h.Timesheets.DeleteTimesheet)
	}

	timelogs := api.Group("/timelogs")
	timelogs.Use(requireAuth)
	{
		timelogs.GET("", h.Timelogs.ListTimelogs)
		timelogs.POST("", h.Timelogs.CreateTimelog)
		timelogs.GET("/:id", requireID, h.Timelogs.GetTimelog)
		timelogs.PUT("/:id", requireID, h.Timelogs.UpdateTimelog)
		timelogs.DELETE("/:id", requireID, h.Timelogs.DeleteTimelog)
	}
}
