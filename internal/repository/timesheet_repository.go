package repository

import (
	"context"
	"sort"

	"github.com/yukikurage/pms-api/internal/database"
	"github.com/yukikurage/pms-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTimesheetRepository is a GORM implementation of TimesheetRepository
type GormTimesheetRepository struct {
	db *gorm.DB
}

// NewTimesheetRepository creates a new TimesheetRepository
func NewTimesheetRepository(db *gorm.DB) TimesheetRepository {
	return &GormTimesheetRepository{db: db}
}

func (r *GormTimesheetRepository) conn(ctx context.Context) *gorm.DB {
	return DBFromContext(ctx, r.db)
}

func (r *GormTimesheetRepository) Create(ctx context.Context, timesheet *models.Timesheet) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Create(timesheet).Error)
}

func (r *GormTimesheetRepository) FindByID(ctx context.Context, id string) (*models.Timesheet, error) {
	var timesheet models.Timesheet
	if err := r.conn(ctx).First(&timesheet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &timesheet, nil
}

// FindForUpdate issues SELECT ... FOR UPDATE. sqlite ignores the locking
// clause and relies on its single-writer lock instead.
func (r *GormTimesheetRepository) FindForUpdate(ctx context.Context, id string) (*models.Timesheet, error) {
	var timesheet models.Timesheet
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&timesheet, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &timesheet, nil
}

func (r *GormTimesheetRepository) LockByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	var locked []models.Timesheet
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id IN ?", sorted).
		Order("id").
		Find(&locked).Error
	return translateError(err)
}

func (r *GormTimesheetRepository) List(ctx context.Context, filter TimesheetFilter) ([]models.Timesheet, int64, error) {
	if filter.Scope.Restricted && len(filter.Scope.IDs) == 0 {
		return []models.Timesheet{}, 0, nil
	}

	query := r.conn(ctx).Model(&models.Timesheet{})
	if filter.Scope.Restricted {
		query = query.Scopes(database.WhereIDIn("timesheets.id", filter.Scope.IDs))
	}
	if filter.EmployeeID != nil {
		query = query.Where("timesheets.employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != nil {
		query = query.Where("timesheets.status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("timesheets.period_start DESC, timesheets.id")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}
	if filter.WithEmployee {
		listQuery = listQuery.Preload("Employee")
	}

	timesheets := []models.Timesheet{}
	if err := listQuery.Find(&timesheets).Error; err != nil {
		return nil, 0, err
	}
	return timesheets, total, nil
}

// Update writes only the named columns (plus updated_at), so a total kept
// by the timelog writes is not overwritten unless total_hours is listed.
func (r *GormTimesheetRepository) Update(ctx context.Context, timesheet *models.Timesheet, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	err := r.conn(ctx).
		Model(timesheet).
		Omit(clause.Associations).
		Select(columns).
		Updates(timesheet).Error
	return translateError(err)
}

// Delete deletes a timesheet; its timelogs cascade.
func (r *GormTimesheetRepository) Delete(ctx context.Context, id string) error {
	return deleteResult(r.conn(ctx).Delete(&models.Timesheet{}, "id = ?", id))
}

func (r *GormTimesheetRepository) SumHours(ctx context.Context, timesheetID string) (float64, error) {
	var total float64
	err := r.conn(ctx).
		Model(&models.Timelog{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("timesheet_id = ?", timesheetID).
		Row().
		Scan(&total)
	if err != nil {
		return 0, translateError(err)
	}
	return total, nil
}

func (r *GormTimesheetRepository) SetTotalHours(ctx context.Context, timesheetID string, total float64) error {
	err := r.conn(ctx).
		Model(&models.Timesheet{}).
		Where("id = ?", timesheetID).
		Update("total_hours", total).Error
	return translateError(err)
}
