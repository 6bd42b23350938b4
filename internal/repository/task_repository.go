package repository

import (
	"context"

	"github.com/yukikurage/pms-api/internal/database"
	"github.com/yukikurage/pms-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) conn(ctx context.Context) *gorm.DB {
	return DBFromContext(ctx, r.db)
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Create(task).Error)
}

// CreateBatch inserts several tasks in one statement
func (r *GormTaskRepository) CreateBatch(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return translateError(r.conn(ctx).Omit(clause.Associations).Create(&tasks).Error)
}

// FindByID finds a task by ID with project and assignee preloaded
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.conn(ctx).Preload("Project").Preload("Assignee").First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	if filter.Scope.Restricted && len(filter.Scope.IDs) == 0 {
		return []models.Task{}, 0, nil
	}

	query := r.conn(ctx).Model(&models.Task{})
	if filter.Scope.Restricted {
		query = query.Scopes(database.WhereIDIn("tasks.id", filter.Scope.IDs))
	}
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC, tasks.created_at DESC, tasks.id")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	tasks := []models.Task{}
	if err := listQuery.Preload("Assignee").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Save(task).Error)
}

// Delete deletes a task; its timelogs cascade.
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	return deleteResult(r.conn(ctx).Delete(&models.Task{}, "id = ?", id))
}
