package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "Todo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
	TaskStatusBlocked    TaskStatus = "Blocked"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "Low"
	TaskPriorityMedium   TaskPriority = "Medium"
	TaskPriorityHigh     TaskPriority = "High"
	TaskPriorityCritical TaskPriority = "Critical"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityCritical:
		return true
	}
	return false
}

type Task struct {
	ID          string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID   string       `gorm:"type:varchar(36);not null;index" json:"project_id"`
	Title       string       `gorm:"type:varchar(200);not null" json:"title"`
	Description *string      `gorm:"type:text" json:"description"`
	AssigneeID  *string      `gorm:"type:varchar(36);index" json:"assignee_id"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'Todo'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	DueDate     *time.Time   `gorm:"type:date" json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Project  *Project  `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"project,omitempty"`
	Assignee *Employee `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"assignee,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}
