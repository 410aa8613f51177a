package models

import (
	"time"

	"gorm.io/gorm"
)

type Event struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	FamilyID    string         `gorm:"type:varchar(4);not null;index" json:"family_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	EventDate   time.Time      `gorm:"not null;index" json:"event_date"`
	Location    string         `gorm:"type:varchar(255)" json:"location"`
	CreatedBy   uint64         `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Family  Family `gorm:"foreignKey:FamilyID" json:"-"`
	Creator User   `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}
