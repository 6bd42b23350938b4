package repository

import (
	"context"

	"github.com/yukikurage/pms-api/internal/database"
	"github.com/yukikurage/pms-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTimelogRepository is a GORM implementation of TimelogRepository
type GormTimelogRepository struct {
	db *gorm.DB
}

// NewTimelogRepository creates a new TimelogRepository
func NewTimelogRepository(db *gorm.DB) TimelogRepository {
	return &GormTimelogRepository{db: db}
}

func (r *GormTimelogRepository) conn(ctx context.Context) *gorm.DB {
	return DBFromContext(ctx, r.db)
}

func (r *GormTimelogRepository) Create(ctx context.Context, timelog *models.Timelog) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Create(timelog).Error)
}

func (r *GormTimelogRepository) FindByID(ctx context.Context, id string) (*models.Timelog, error) {
	var timelog models.Timelog
	if err := r.conn(ctx).First(&timelog, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &timelog, nil
}

func (r *GormTimelogRepository) List(ctx context.Context, filter TimelogFilter) ([]models.Timelog, int64, error) {
	if filter.Scope.Restricted && len(filter.Scope.IDs) == 0 {
		return []models.Timelog{}, 0, nil
	}

	query := r.conn(ctx).Model(&models.Timelog{})
	if filter.Scope.Restricted {
		query = query.Scopes(database.WhereIDIn("timelogs.id", filter.Scope.IDs))
	}
	if filter.TimesheetID != nil {
		query = query.Where("timelogs.timesheet_id = ?", *filter.TimesheetID)
	}
	if filter.TaskID != nil {
		query = query.Where("timelogs.task_id = ?", *filter.TaskID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("timelogs.date DESC, timelogs.created_at DESC, timelogs.id")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	timelogs := []models.Timelog{}
	if err := listQuery.Find(&timelogs).Error; err != nil {
		return nil, 0, err
	}
	return timelogs, total, nil
}

func (r *GormTimelogRepository) Update(ctx context.Context, timelog *models.Timelog) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Save(timelog).Error)
}

func (r *GormTimelogRepository) Delete(ctx context.Context, id string) error {
	return deleteResult(r.conn(ctx).Delete(&models.Timelog{}, "id = ?", id))
}

func (r *GormTimelogRepository) TimesheetIDsByTasks(ctx context.Context, taskIDs []string) ([]string, error) {
	ids := []string{}
	if len(taskIDs) == 0 {
		return ids, nil
	}
	err := r.conn(ctx).
		Model(&models.Timelog{}).
		Distinct("timesheet_id").
		Where("task_id IN ?", taskIDs).
		Pluck("timesheet_id", &ids).Error
	return ids, err
}
