package repository

import (
	"context"

	"github.com/yukikurage/pms-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOwnershipRepository is a GORM implementation of OwnershipRepository.
// Every lookup reads current state; nothing is cached.
type GormOwnershipRepository struct {
	db *gorm.DB
}

// NewOwnershipRepository creates a new OwnershipRepository
func NewOwnershipRepository(db *gorm.DB) OwnershipRepository {
	return &GormOwnershipRepository{db: db}
}

func (r *GormOwnershipRepository) conn(ctx context.Context) *gorm.DB {
	return DBFromContext(ctx, r.db)
}

func (r *GormOwnershipRepository) pluckIDs(ctx context.Context, model interface{}, where string, arg interface{}) ([]string, error) {
	ids := []string{}
	if err := r.conn(ctx).Model(model).Where(where, arg).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormOwnershipRepository) EmployeeIDsByManager(ctx context.Context, managerID string) ([]string, error) {
	return r.pluckIDs(ctx, &models.Employee{}, "manager_id = ?", managerID)
}

func (r *GormOwnershipRepository) ProjectIDsByPM(ctx context.Context, pmID string) ([]string, error) {
	return r.pluckIDs(ctx, &models.Project{}, "pm_id = ?", pmID)
}

func (r *GormOwnershipRepository) TaskIDsByProjects(ctx context.Context, projectIDs []string) ([]string, error) {
	if len(projectIDs) == 0 {
		return []string{}, nil
	}
	return r.pluckIDs(ctx, &models.Task{}, "project_id IN ?", projectIDs)
}

func (r *GormOwnershipRepository) TaskIDsByAssignee(ctx context.Context, employeeID string) ([]string, error) {
	return r.pluckIDs(ctx, &models.Task{}, "assignee_id = ?", employeeID)
}

func (r *GormOwnershipRepository) TimesheetIDsByEmployees(ctx context.Context, employeeIDs []string) ([]string, error) {
	if len(employeeIDs) == 0 {
		return []string{}, nil
	}
	return r.pluckIDs(ctx, &models.Timesheet{}, "employee_id IN ?", employeeIDs)
}

func (r *GormOwnershipRepository) TimelogIDsByEmployees(ctx context.Context, employeeIDs []string) ([]string, error) {
	if len(employeeIDs) == 0 {
		return []string{}, nil
	}
	return r.pluckIDs(ctx, &models.Timelog{}, "employee_id IN ?", employeeIDs)
}

// ManagerIDOf locks the employee row when called inside a transaction, so a
// chain walked for a manager change cannot move before that change commits.
func (r *GormOwnershipRepository) ManagerIDOf(ctx context.Context, employeeID string) (*string, error) {
	query := r.conn(ctx)
	if _, ok := txFromContext(ctx); ok {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var employee models.Employee
	err := query.Select("id", "manager_id").First(&employee, "id = ?", employeeID).Error
	if err != nil {
		return nil, err
	}
	return employee.ManagerID, nil
}
