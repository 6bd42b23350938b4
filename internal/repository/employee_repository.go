package repository

import (
	"context"

	"github.com/yukikurage/pms-api/internal/database"
	"github.com/yukikurage/pms-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEmployeeRepository is a GORM implementation of EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

func (r *GormEmployeeRepository) conn(ctx context.Context) *gorm.DB {
	return DBFromContext(ctx, r.db)
}

// Create creates a new employee
func (r *GormEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Create(employee).Error)
}

// FindByID finds an employee by ID with the user preloaded
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.conn(ctx).Preload("User").First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByUserID finds the employee linked to a user
func (r *GormEmployeeRepository) FindByUserID(ctx context.Context, userID string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.conn(ctx).Where("user_id = ?", userID).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *GormEmployeeRepository) FindForUpdate(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&employee, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &employee, nil
}

// List retrieves employees with filtering and pagination
func (r *GormEmployeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]models.Employee, int64, error) {
	if filter.Scope.Restricted && len(filter.Scope.IDs) == 0 {
		return []models.Employee{}, 0, nil
	}

	query := r.conn(ctx).Model(&models.Employee{})
	if filter.Scope.Restricted {
		query = query.Scopes(database.WhereIDIn("employees.id", filter.Scope.IDs))
	}
	if filter.ManagerID != nil {
		query = query.Where("employees.manager_id = ?", *filter.ManagerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("employees.last_name ASC, employees.first_name ASC, employees.id")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	employees := []models.Employee{}
	if err := listQuery.Preload("User").Find(&employees).Error; err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// Update updates an employee
func (r *GormEmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return translateError(r.conn(ctx).Omit(clause.Associations).Save(employee).Error)
}

// Delete deletes an employee. Reports, managed projects and assigned tasks
// are detached by the database; timesheets and timelogs cascade.
func (r *GormEmployeeRepository) Delete(ctx context.Context, id string) error {
	return deleteResult(r.conn(ctx).Delete(&models.Employee{}, "id = ?", id))
}
