package repository

import (
	"context"

	"github.com/yukikurage/pms-api/internal/database"
	"github.com/yukikurage/pms-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) conn(ctx context.Context) *gorm.DB {
	return DBFromContext(ctx, r.db)
}

func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Create(project).Error)
}

func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.conn(ctx).Preload("PM").First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *GormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	if filter.Scope.Restricted && len(filter.Scope.IDs) == 0 {
		return []models.Project{}, 0, nil
	}

	query := r.conn(ctx).Model(&models.Project{})
	if filter.Scope.Restricted {
		query = query.Scopes(database.WhereIDIn("projects.id", filter.Scope.IDs))
	}
	if filter.Status != nil {
		query = query.Where("projects.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("projects.created_at DESC, projects.id")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	projects := []models.Project{}
	if err := listQuery.Preload("PM").Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Save(project).Error)
}

// Delete deletes a project; its tasks and their timelogs cascade.
func (r *GormProjectRepository) Delete(ctx context.Context, id string) error {
	return deleteResult(r.conn(ctx).Delete(&models.Project{}, "id = ?", id))
}
