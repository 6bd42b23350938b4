package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "Planning"
	ProjectStatusInProgress ProjectStatus = "InProgress"
	ProjectStatusCompleted  ProjectStatus = "Completed"
	ProjectStatusOnHold     ProjectStatus = "OnHold"
	ProjectStatusCancelled  ProjectStatus = "Cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold, ProjectStatusCancelled:
		return true
	}
	return false
}

type Project struct {
	ID          string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string        `gorm:"type:varchar(200);not null" json:"name"`
	Description *string       `gorm:"type:text" json:"description"`
	PMID        *string       `gorm:"column:pm_id;type:varchar(36);index" json:"pm_id"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'Planning'" json:"status"`
	StartDate   *time.Time    `gorm:"type:date" json:"start_date"`
	EndDate     *time.Time    `gorm:"type:date" json:"end_date"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	PM *Employee `gorm:"foreignKey:PMID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"pm,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
