package services

import (
	"context"
	"time"

	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/aggregate"
	"github.com/yukikurage/pms-api/internal/logger"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/repository"
	"github.com/yukikurage/pms-api/internal/utils"
)

// TimesheetService manages timesheets. Their totals are maintained by the
// timelog writes; an explicit TotalHours on create or update overrides the
// stored value until the next timelog mutation recomputes it.
type TimesheetService struct {
	timesheets repository.TimesheetRepository
	employees  repository.EmployeeRepository
	tx         repository.TxManager
	access     *access.Engine
}

// NewTimesheetService creates a new TimesheetService
func NewTimesheetService(timesheets repository.TimesheetRepository, employees repository.EmployeeRepository, tx repository.TxManager, engine *access.Engine) *TimesheetService {
	return &TimesheetService{timesheets: timesheets, employees: employees, tx: tx, access: engine}
}

// ListTimesheetsInput represents filters for listing timesheets
type ListTimesheetsInput struct {
	EmployeeID *string
	Status     *models.TimesheetStatus
	Pagination utils.PaginationParams
}

// CreateTimesheetInput represents input for creating a timesheet
type CreateTimesheetInput struct {
	EmployeeID  string
	PeriodStart time.Time
	PeriodEnd   time.Time
	TotalHours  *float64
	Status      models.TimesheetStatus
}

// UpdateTimesheetInput represents input for updating a timesheet
type UpdateTimesheetInput struct {
	PeriodStart *time.Time
	PeriodEnd   *time.Time
	TotalHours  *float64
	Status      *models.TimesheetStatus
}

func (s *TimesheetService) List(ctx context.Context, actor *access.Actor, input ListTimesheetsInput) ([]models.Timesheet, int64, error) {
	decision, err := s.access.Authorize(ctx, actor, access.ResourceTimesheet, access.OpList)
	if err != nil {
		return nil, 0, err
	}

	timesheets, total, err := s.timesheets.List(ctx, repository.TimesheetFilter{
		Scope:      scopeOf(decision),
		EmployeeID: input.EmployeeID,
		Status:     input.Status,
		Pagination: &input.Pagination,
	})
	if err != nil {
		return nil, 0, storeError(err, nil, "list timesheets")
	}
	return timesheets, total, nil
}

func (s *TimesheetService) Get(ctx context.Context, actor *access.Actor, id string) (*models.Timesheet, error) {
	if _, err := s.access.Check(ctx, actor, access.ResourceTimesheet, access.OpGet, id); err != nil {
		return nil, err
	}
	timesheet, err := s.timesheets.FindByID(ctx, id)
	return findOr(timesheet, err, ErrTimesheetNotFound, "find timesheet")
}

func (s *TimesheetService) Create(ctx context.Context, actor *access.Actor, input CreateTimesheetInput) (*models.Timesheet, error) {
	if _, err := s.access.Authorize(ctx, actor, access.ResourceTimesheet, access.OpCreate); err != nil {
		return nil, err
	}

	if input.PeriodEnd.Before(input.PeriodStart) {
		return nil, ErrInvalidPeriod
	}
	if input.Status == "" {
		input.Status = models.TimesheetStatusDraft
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidTimesheetStatus
	}
	total := 0.0
	if input.TotalHours != nil {
		var err error
		if total, err = validTotalHours(*input.TotalHours); err != nil {
			return nil, err
		}
	}

	if _, err := s.employees.FindByID(ctx, input.EmployeeID); err != nil {
		return nil, storeError(err, ErrEmployeeNotFound, "find employee")
	}

	timesheet := &models.Timesheet{
		EmployeeID:  input.EmployeeID,
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
		TotalHours:  total,
		Status:      input.Status,
	}
	if err := s.timesheets.Create(ctx, timesheet); err != nil {
		return nil, storeError(err, nil, "create timesheet")
	}

	logger.InfoLog(ctx, "timesheet %s created for employee %s", timesheet.ID, timesheet.EmployeeID)
	return s.timesheets.FindByID(ctx, timesheet.ID)
}

// Update changes period and status under a lock on the timesheet row. The
// stored total is written only when TotalHours is given.
func (s *TimesheetService) Update(ctx context.Context, actor *access.Actor, id string, input UpdateTimesheetInput) (*models.Timesheet, error) {
	if _, err := s.access.Check(ctx, actor, access.ResourceTimesheet, access.OpUpdate, id); err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidTimesheetStatus
	}
	var total *float64
	if input.TotalHours != nil {
		t, err := validTotalHours(*input.TotalHours)
		if err != nil {
			return nil, err
		}
		total = &t
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		timesheet, err := s.timesheets.FindForUpdate(ctx, id)
		if err != nil {
			return storeError(err, ErrTimesheetNotFound, "lock timesheet")
		}

		columns := []string{}
		if input.PeriodStart != nil {
			timesheet.PeriodStart = *input.PeriodStart
			columns = append(columns, "period_start")
		}
		if input.PeriodEnd != nil {
			timesheet.PeriodEnd = *input.PeriodEnd
			columns = append(columns, "period_end")
		}
		if timesheet.PeriodEnd.Before(timesheet.PeriodStart) {
			return ErrInvalidPeriod
		}
		if input.Status != nil {
			timesheet.Status = *input.Status
			columns = append(columns, "status")
		}
		if total != nil {
			logger.WarnLog(ctx, "timesheet %s total overridden to %.2f by %s", id, *total, actor.UserID)
			timesheet.TotalHours = *total
			columns = append(columns, "total_hours")
		}

		return s.timesheets.Update(ctx, timesheet, columns...)
	})
	if err != nil {
		return nil, storeError(err, nil, "update timesheet")
	}
	return s.timesheets.FindByID(ctx, id)
}

// Delete removes a timesheet together with its timelogs.
func (s *TimesheetService) Delete(ctx context.Context, actor *access.Actor, id string) error {
	if _, err := s.access.Check(ctx, actor, access.ResourceTimesheet, access.OpDelete, id); err != nil {
		return err
	}
	if err := s.timesheets.Delete(ctx, id); err != nil {
		return storeError(err, ErrTimesheetNotFound, "delete timesheet")
	}
	logger.InfoLog(ctx, "timesheet %s deleted by %s", id, actor.UserID)
	return nil
}

func validTotalHours(total float64) (float64, error) {
	total = aggregate.RoundHours(total)
	if total < 0 || total > maxTotalHours {
		return 0, ErrInvalidTotalHours
	}
	return total, nil
}
