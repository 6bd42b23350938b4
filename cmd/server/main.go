package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/aggregate"
	"github.com/yukikurage/pms-api/internal/auth"
	"github.com/yukikurage/pms-api/internal/config"
	"github.com/yukikurage/pms-api/internal/constants"
	"github.com/yukikurage/pms-api/internal/database"
	"github.com/yukikurage/pms-api/internal/handlers"
	"github.com/yukikurage/pms-api/internal/logger"
	"github.com/yukikurage/pms-api/internal/middleware"
	"github.com/yukikurage/pms-api/internal/repository"
	"github.com/yukikurage/pms-api/internal/services"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.InitLogging(cfg.LogLevel, cfg.LogFilePath)
	ctx := context.Background()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	switch cfg.MigrationMode {
	case config.MigrationAuto:
		err = database.AutoMigrate(db)
	case config.MigrationSQL:
		err = database.RunMigrations("up", cfg.MigrationsDir, cfg.MigrationURL())
	}
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	store, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories
	users := repository.NewUserRepository(db)
	employees := repository.NewEmployeeRepository(db)
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	timesheets := repository.NewTimesheetRepository(db)
	timelogs := repository.NewTimelogRepository(db)
	tx := repository.NewTxManager(db)

	// Access control and aggregates
	graph := access.NewGraph(repository.NewOwnershipRepository(db))
	engine := access.NewEngine(access.DefaultPolicy, graph)
	resolver := access.NewIdentityResolver(users, employees)
	totals := aggregate.NewEngine(timesheets)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	// Initialize handlers
	h := handlers.Handlers{
		Auth:      handlers.NewAuthHandler(services.NewAuthService(users, employees, tx, tokens)),
		Users:     handlers.NewUserHandler(services.NewUserService(users, employees, tx, engine)),
		Employees: handlers.NewEmployeeHandler(services.NewEmployeeService(employees, users, tx, engine)),
		Projects:  handlers.NewProjectHandler(services.NewProjectService(projects, employees, timesheets, timelogs, tx, engine, totals)),
		Tasks: handlers.NewTaskHandler(services.NewTaskService(services.TaskServiceDeps{
			Tasks:      tasks,
			Projects:   projects,
			Employees:  employees,
			Timesheets: timesheets,
			Timelogs:   timelogs,
			Tx:         tx,
			Access:     engine,
			Totals:     totals,
			AI:         aiService,
		})),
		Timesheets: handlers.NewTimesheetHandler(
			services.NewTimesheetService(timesheets, employees, tx, engine),
			services.NewExportService(timesheets, engine),
		),
		Timelogs: handlers.NewTimelogHandler(services.NewTimelogService(services.TimelogServiceDeps{
			Timelogs:   timelogs,
			Timesheets: timesheets,
			Tasks:      tasks,
			Employees:  employees,
			Tx:         tx,
			Access:     engine,
			Totals:     totals,
		})),
	}

	// Health check endpoint
	r.GET("/health", healthHandler(db))

	// API routes
	handlers.RegisterRoutes(r.Group("/api"), h, middleware.RequireAuth(resolver, tokens))

	// Start server
	logger.InfoLog(ctx, "Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newSessionStore uses Redis when REDIS_HOST is configured and signed
// cookies otherwise.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.RedisHost == "" {
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	}

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	return redisStore.NewStore(
		10,                        // Redis pool size
		"tcp",                     // network type
		redisAddr,                 // Redis address from config
		"",                        // username (empty for default user)
		cfg.RedisPassword,         // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			logger.ErrorErr(ctx, err, "health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unavailable",
				"database": "down",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": "up",
		})
	}
}
