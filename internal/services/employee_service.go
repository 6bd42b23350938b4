package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/logger"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/repository"
	"github.com/yukikurage/pms-api/internal/utils"
	"gorm.io/gorm"
)

// EmployeeService manages employee profiles and the reporting graph.
type EmployeeService struct {
	employees repository.EmployeeRepository
	users     repository.UserRepository
	tx        repository.TxManager
	access    *access.Engine
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employees repository.EmployeeRepository, users repository.UserRepository, tx repository.TxManager, engine *access.Engine) *EmployeeService {
	return &EmployeeService{employees: employees, users: users, tx: tx, access: engine}
}

// ListEmployeesInput represents filters for listing employees
type ListEmployeesInput struct {
	ManagerID  *string
	Pagination utils.PaginationParams
}

// CreateEmployeeInput represents input for creating an employee
type CreateEmployeeInput struct {
	UserID     string
	ManagerID  *string
	FirstName  string
	LastName   string
	Department *string
	Position   *string
}

// UpdateEmployeeInput represents input for updating an employee. An empty
// ManagerID clears the manager.
type UpdateEmployeeInput struct {
	ManagerID  *string
	FirstName  *string
	LastName   *string
	Department *string
	Position   *string
}

func (s *EmployeeService) List(ctx context.Context, actor *access.Actor, input ListEmployeesInput) ([]models.Employee, int64, error) {
	decision, err := s.access.Authorize(ctx, actor, access.ResourceEmployee, access.OpList)
	if err != nil {
		return nil, 0, err
	}

	employees, total, err := s.employees.List(ctx, repository.EmployeeFilter{
		Scope:      scopeOf(decision),
		ManagerID:  input.ManagerID,
		Pagination: &input.Pagination,
	})
	if err != nil {
		return nil, 0, storeError(err, nil, "list employees")
	}
	return employees, total, nil
}

func (s *EmployeeService) Get(ctx context.Context, actor *access.Actor, id string) (*models.Employee, error) {
	if _, err := s.access.Check(ctx, actor, access.ResourceEmployee, access.OpGet, id); err != nil {
		return nil, err
	}
	employee, err := s.employees.FindByID(ctx, id)
	return findOr(employee, err, ErrEmployeeNotFound, "find employee")
}

func (s *EmployeeService) Create(ctx context.Context, actor *access.Actor, input CreateEmployeeInput) (*models.Employee, error) {
	if _, err := s.access.Authorize(ctx, actor, access.ResourceEmployee, access.OpCreate); err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	if firstName == "" || lastName == "" {
		return nil, ErrNameRequired
	}

	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		return nil, storeError(err, ErrEmployeeUserNotFound, "find user")
	}
	if _, err := s.employees.FindByUserID(ctx, input.UserID); err == nil {
		return nil, ErrEmployeeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError(err, nil, "check employee")
	}

	managerID := normalizeRef(input.ManagerID)
	if managerID != nil {
		if _, err := s.employees.FindByID(ctx, *managerID); err != nil {
			return nil, storeError(err, ErrManagerNotFound, "find manager")
		}
	}

	employee := &models.Employee{
		UserID:     input.UserID,
		ManagerID:  managerID,
		FirstName:  firstName,
		LastName:   lastName,
		Department: input.Department,
		Position:   input.Position,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmployeeExists
		}
		return nil, storeError(err, nil, "create employee")
	}

	logger.InfoLog(ctx, "employee %s created for user %s", employee.ID, employee.UserID)
	return s.employees.FindByID(ctx, employee.ID)
}

// Update applies the given fields. A manager change that would make the
// reporting graph cyclic is rejected. The employee row and every row on the
// new manager's chain stay locked until the write commits, so two concurrent
// manager changes cannot close a loop between them.
func (s *EmployeeService) Update(ctx context.Context, actor *access.Actor, id string, input UpdateEmployeeInput) (*models.Employee, error) {
	if _, err := s.access.Check(ctx, actor, access.ResourceEmployee, access.OpUpdate, id); err != nil {
		return nil, err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		employee, err := s.employees.FindForUpdate(ctx, id)
		if err != nil {
			return storeError(err, ErrEmployeeNotFound, "lock employee")
		}

		if input.ManagerID != nil {
			managerID := normalizeRef(input.ManagerID)
			if managerID != nil {
				if _, err := s.employees.FindByID(ctx, *managerID); err != nil {
					return storeError(err, ErrManagerNotFound, "find manager")
				}
				cycle, err := s.access.Graph().WouldCreateCycle(ctx, employee.ID, *managerID)
				if err != nil {
					return storeError(err, nil, "check reporting chain")
				}
				if cycle {
					return ErrManagerCycle
				}
			}
			employee.ManagerID = managerID
		}
		if input.FirstName != nil {
			name := strings.TrimSpace(*input.FirstName)
			if name == "" {
				return ErrNameRequired
			}
			employee.FirstName = name
		}
		if input.LastName != nil {
			name := strings.TrimSpace(*input.LastName)
			if name == "" {
				return ErrNameRequired
			}
			employee.LastName = name
		}
		if input.Department != nil {
			employee.Department = normalizeRef(input.Department)
		}
		if input.Position != nil {
			employee.Position = normalizeRef(input.Position)
		}

		return s.employees.Update(ctx, employee)
	})
	if err != nil {
		return nil, storeError(err, nil, "update employee")
	}
	return s.employees.FindByID(ctx, id)
}

// Delete removes an employee. Its reports keep existing with no manager.
func (s *EmployeeService) Delete(ctx context.Context, actor *access.Actor, id string) error {
	if _, err := s.access.Check(ctx, actor, access.ResourceEmployee, access.OpDelete, id); err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return storeError(err, ErrEmployeeNotFound, "delete employee")
	}
	logger.InfoLog(ctx, "employee %s deleted by %s", id, actor.UserID)
	return nil
}

// scopeOf converts an access decision into a repository listing scope.
func scopeOf(d access.Decision) repository.IDScope {
	if d.Unrestricted {
		return repository.IDScope{}
	}
	return repository.IDScope{Restricted: true, IDs: d.VisibleIDs()}
}

// normalizeRef trims an optional string and maps blank to nil.
func normalizeRef(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
