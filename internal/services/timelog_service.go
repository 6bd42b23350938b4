package services

import (
	"context"
	"time"

	"github.com/yukikurage/pms-api/internal/access"
	"github.com/yukikurage/pms-api/internal/aggregate"
	"github.com/yukikurage/pms-api/internal/constants"
	"github.com/yukikurage/pms-api/internal/logger"
	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/repository"
	"github.com/yukikurage/pms-api/internal/utils"
)

// TimelogService records hours against tasks. Every write runs in one
// transaction that locks the owning timesheet, applies the change and
// recomputes the timesheet total.
type TimelogService struct {
	timelogs   repository.TimelogRepository
	timesheets repository.TimesheetRepository
	tasks      repository.TaskRepository
	employees  repository.EmployeeRepository
	tx         repository.TxManager
	access     *access.Engine
	totals     *aggregate.Engine
}

// TimelogServiceDeps groups the collaborators of a TimelogService
type TimelogServiceDeps struct {
	Timelogs   repository.TimelogRepository
	Timesheets repository.TimesheetRepository
	Tasks      repository.TaskRepository
	Employees  repository.EmployeeRepository
	Tx         repository.TxManager
	Access     *access.Engine
	Totals     *aggregate.Engine
}

// NewTimelogService creates a new TimelogService
func NewTimelogService(deps TimelogServiceDeps) *TimelogService {
	return &TimelogService{
		timelogs:   deps.Timelogs,
		timesheets: deps.Timesheets,
		tasks:      deps.Tasks,
		employees:  deps.Employees,
		tx:         deps.Tx,
		access:     deps.Access,
		totals:     deps.Totals,
	}
}

// ListTimelogsInput represents filters for listing timelogs
type ListTimelogsInput struct {
	TimesheetID *string
	TaskID      *string
	Pagination  utils.PaginationParams
}

// CreateTimelogInput represents input for creating a timelog
type CreateTimelogInput struct {
	TimesheetID string
	TaskID      string
	EmployeeID  string
	Date        time.Time
	Hours       float64
	Notes       *string
}

// UpdateTimelogInput represents input for updating a timelog
type UpdateTimelogInput struct {
	Date  *time.Time
	Hours *float64
	Notes *string
}

func (s *TimelogService) List(ctx context.Context, actor *access.Actor, input ListTimelogsInput) ([]models.Timelog, int64, error) {
	decision, err := s.access.Authorize(ctx, actor, access.ResourceTimelog, access.OpList)
	if err != nil {
		return nil, 0, err
	}

	timelogs, total, err := s.timelogs.List(ctx, repository.TimelogFilter{
		Scope:       scopeOf(decision),
		TimesheetID: input.TimesheetID,
		TaskID:      input.TaskID,
		Pagination:  &input.Pagination,
	})
	if err != nil {
		return nil, 0, storeError(err, nil, "list timelogs")
	}
	return timelogs, total, nil
}

func (s *TimelogService) Get(ctx context.Context, actor *access.Actor, id string) (*models.Timelog, error) {
	if _, err := s.access.Check(ctx, actor, access.ResourceTimelog, access.OpGet, id); err != nil {
		return nil, err
	}
	timelog, err := s.timelogs.FindByID(ctx, id)
	return findOr(timelog, err, ErrTimelogNotFound, "find timelog")
}

// Create validates every reference before writing, then inserts the timelog
// and recomputes the owning timesheet.
func (s *TimelogService) Create(ctx context.Context, actor *access.Actor, input CreateTimelogInput) (*models.Timelog, error) {
	if _, err := s.access.Authorize(ctx, actor, access.ResourceTimelog, access.OpCreate); err != nil {
		return nil, err
	}

	hours, err := validHours(input.Hours)
	if err != nil {
		return nil, err
	}

	timelog := &models.Timelog{
		TimesheetID: input.TimesheetID,
		TaskID:      input.TaskID,
		EmployeeID:  input.EmployeeID,
		Date:        input.Date,
		Hours:       hours,
		Notes:       normalizeRef(input.Notes),
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		timesheet, err := s.timesheets.FindForUpdate(ctx, input.TimesheetID)
		if err != nil {
			return storeError(err, ErrTimesheetNotFound, "find timesheet")
		}
		if _, err := s.tasks.FindByID(ctx, input.TaskID); err != nil {
			return storeError(err, ErrTaskNotFound, "find task")
		}
		if _, err := s.employees.FindByID(ctx, input.EmployeeID); err != nil {
			return storeError(err, ErrEmployeeNotFound, "find employee")
		}
		if timesheet.EmployeeID != input.EmployeeID {
			return ErrTimesheetOwnership
		}

		if err := s.timelogs.Create(ctx, timelog); err != nil {
			return err
		}
		_, err = s.totals.Recompute(ctx, timesheet.ID)
		return err
	})
	if err != nil {
		return nil, storeError(err, nil, "create timelog")
	}

	logger.InfoLog(ctx, "timelog %s added to timesheet %s", timelog.ID, timelog.TimesheetID)
	return s.timelogs.FindByID(ctx, timelog.ID)
}

func (s *TimelogService) Update(ctx context.Context, actor *access.Actor, id string, input UpdateTimelogInput) (*models.Timelog, error) {
	if _, err := s.access.Check(ctx, actor, access.ResourceTimelog, access.OpUpdate, id); err != nil {
		return nil, err
	}

	var hours *float64
	if input.Hours != nil {
		h, err := validHours(*input.Hours)
		if err != nil {
			return nil, err
		}
		hours = &h
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		timelog, err := s.timelogs.FindByID(ctx, id)
		if err != nil {
			return storeError(err, ErrTimelogNotFound, "find timelog")
		}
		if _, err := s.timesheets.FindForUpdate(ctx, timelog.TimesheetID); err != nil {
			return storeError(err, ErrTimesheetNotFound, "lock timesheet")
		}

		if input.Date != nil {
			timelog.Date = *input.Date
		}
		if hours != nil {
			timelog.Hours = *hours
		}
		if input.Notes != nil {
			timelog.Notes = normalizeRef(input.Notes)
		}

		timelog.Task = nil
		if err := s.timelogs.Update(ctx, timelog); err != nil {
			return err
		}
		_, err = s.totals.Recompute(ctx, timelog.TimesheetID)
		return err
	})
	if err != nil {
		return nil, storeError(err, nil, "update timelog")
	}
	return s.timelogs.FindByID(ctx, id)
}

// Delete removes a timelog and recomputes the timesheet it belonged to.
func (s *TimelogService) Delete(ctx context.Context, actor *access.Actor, id string) error {
	if _, err := s.access.Check(ctx, actor, access.ResourceTimelog, access.OpDelete, id); err != nil {
		return err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		timelog, err := s.timelogs.FindByID(ctx, id)
		if err != nil {
			return storeError(err, ErrTimelogNotFound, "find timelog")
		}
		timesheetID := timelog.TimesheetID
		if _, err := s.timesheets.FindForUpdate(ctx, timesheetID); err != nil {
			return storeError(err, ErrTimesheetNotFound, "lock timesheet")
		}

		if err := s.timelogs.Delete(ctx, id); err != nil {
			return err
		}
		_, err = s.totals.Recompute(ctx, timesheetID)
		return err
	})
	if err != nil {
		return storeError(err, ErrTimelogNotFound, "delete timelog")
	}

	logger.InfoLog(ctx, "timelog %s deleted by %s", id, actor.UserID)
	return nil
}

func validHours(hours float64) (float64, error) {
	hours = aggregate.RoundHours(hours)
	if hours < 0 || hours > constants.MaxTimelogHours {
		return 0, ErrInvalidHours
	}
	return hours, nil
}
