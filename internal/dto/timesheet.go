package dto

import (
	"time"

	"github.com/yukikurage/pms-api/internal/models"
	"github.com/yukikurage/pms-api/internal/utils"
)

// TimesheetDTO represents a timesheet in API responses
type TimesheetDTO struct {
	ID          string                 `json:"id"`
	EmployeeID  string                 `json:"employee_id"`
	PeriodStart string                 `json:"period_start"`
	PeriodEnd   string                 `json:"period_end"`
	TotalHours  float64                `json:"total_hours"`
	Status      models.TimesheetStatus `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Employee    *EmployeeSummaryDTO    `json:"employee,omitempty"`
}

// TimelogDTO represents a timelog in API responses
type TimelogDTO struct {
	ID          string    `json:"id"`
	TimesheetID string    `json:"timesheet_id"`
	TaskID      string    `json:"task_id"`
	EmployeeID  string    `json:"employee_id"`
	Date        string    `json:"date"`
	Hours       float64   `json:"hours"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTimesheetDTO converts a Timesheet model to TimesheetDTO
func ToTimesheetDTO(timesheet models.Timesheet) TimesheetDTO {
	return TimesheetDTO{
		ID:          timesheet.ID,
		EmployeeID:  timesheet.EmployeeID,
		PeriodStart: utils.FormatDate(timesheet.PeriodStart),
		PeriodEnd:   utils.FormatDate(timesheet.PeriodEnd),
		TotalHours:  timesheet.TotalHours,
		Status:      timesheet.Status,
		CreatedAt:   timesheet.CreatedAt,
		UpdatedAt:   timesheet.UpdatedAt,
		Employee:    toEmployeeSummary(timesheet.Employee),
	}
}

// ToTimesheetDTOs converts a slice of timesheets
func ToTimesheetDTOs(timesheets []models.Timesheet) []TimesheetDTO {
	items := make([]TimesheetDTO, len(timesheets))
	for i, timesheet := range timesheets {
		items[i] = ToTimesheetDTO(timesheet)
	}
	return items
}

// ToTimelogDTO converts a Timelog model to TimelogDTO
func ToTimelogDTO(timelog models.Timelog) TimelogDTO {
	return TimelogDTO{
		ID:          timelog.ID,
		TimesheetID: timelog.TimesheetID,
		TaskID:      timelog.TaskID,
		EmployeeID:  timelog.EmployeeID,
		Date:        utils.FormatDate(timelog.Date),
		Hours:       timelog.Hours,
		Notes:       timelog.Notes,
		CreatedAt:   timelog.CreatedAt,
		UpdatedAt:   timelog.UpdatedAt,
	}
}

// ToTimelogDTOs converts a slice of timelogs
func ToTimelogDTOs(timelogs []models.Timelog) []TimelogDTO {
	items := make([]TimelogDTO, len(timelogs))
	for i, timelog := range timelogs {
		items[i] = ToTimelogDTO(timelog)
	}
	return items
}
