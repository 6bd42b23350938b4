package models

import (
	"time"

	"gorm.io/gorm"
)

// Employee is the profile linked to a User. ManagerID forms the reporting graph.
type Employee struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID     string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	ManagerID  *string   `gorm:"type:varchar(36);index" json:"manager_id"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Department *string   `gorm:"type:varchar(100)" json:"department"`
	Position   *string   `gorm:"type:varchar(100)" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	User    *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	Manager *Employee `gorm:"foreignKey:ManagerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"manager,omitempty"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}
