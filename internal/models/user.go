package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash *string        `gorm:"type:varchar(255)" json:"-"` // nil for OAuth accounts
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Phone        string         `gorm:"type:varchar(30)" json:"phone"`
	Avatar       string         `gorm:"type:varchar(500)" json:"avatar"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Memberships   []FamilyMembership `gorm:"foreignKey:UserID" json:"-"`
	LinkedMembers []FamilyMember     `gorm:"foreignKey:LinkedUserID" json:"-"`
	Notifications []Notification     `gorm:"foreignKey:UserID" json:"-"`
}
