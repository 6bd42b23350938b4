package models

import (
	"time"

	"gorm.io/gorm"
)

// Timelog records hours spent on a task. EmployeeID must match the owning
// timesheet's EmployeeID.
type Timelog struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TimesheetID string    `gorm:"type:varchar(36);not null;index" json:"timesheet_id"`
	TaskID      string    `gorm:"type:varchar(36);not null;index" json:"task_id"`
	EmployeeID  string    `gorm:"type:varchar(36);not null;index" json:"employee_id"`
	Date        time.Time `gorm:"type:date;not null" json:"date"`
	Hours       float64   `gorm:"type:decimal(4,2);not null" json:"hours"`
	Notes       *string   `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Timesheet *Timesheet `gorm:"foreignKey:TimesheetID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Task      *Task      `gorm:"foreignKey:TaskID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"task,omitempty"`
	Employee  *Employee  `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (t *Timelog) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}
