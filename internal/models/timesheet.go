package models

import (
	"time"

	"gorm.io/gorm"
)

type TimesheetStatus string

const (
	TimesheetStatusDraft     TimesheetStatus = "Draft"
	TimesheetStatusSubmitted TimesheetStatus = "Submitted"
	TimesheetStatusApproved  TimesheetStatus = "Approved"
	TimesheetStatusRejected  TimesheetStatus = "Rejected"
)

func (s TimesheetStatus) Valid() bool {
	switch s {
	case TimesheetStatusDraft, TimesheetStatusSubmitted, TimesheetStatusApproved, TimesheetStatusRejected:
		return true
	}
	return false
}

// Timesheet groups an employee's timelogs over a period. TotalHours is a
// derived column kept equal to the sum of the timelogs' hours.
type Timesheet struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	EmployeeID  string          `gorm:"type:varchar(36);not null;index" json:"employee_id"`
	PeriodStart time.Time       `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd   time.Time       `gorm:"type:date;not null" json:"period_end"`
	TotalHours  float64         `gorm:"type:decimal(5,2);not null;default:0" json:"total_hours"`
	Status      TimesheetStatus `gorm:"type:varchar(20);not null;default:'Draft'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Employee *Employee `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"employee,omitempty"`
}

func (t *Timesheet) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}
