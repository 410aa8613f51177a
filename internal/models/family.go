package models

import (
	"time"

	"gorm.io/gorm"
)

// Family is identified by a 4-digit numeric code drawn at creation time.
type Family struct {
	ID          string         `gorm:"type:varchar(4);primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	AdminID     uint64         `gorm:"not null" json:"admin_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Admin        User                `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Memberships  []FamilyMembership  `gorm:"foreignKey:FamilyID" json:"memberships,omitempty"`
	Members      []FamilyMember      `gorm:"foreignKey:FamilyID" json:"members,omitempty"`
	Events       []Event             `gorm:"foreignKey:FamilyID" json:"events,omitempty"`
	Confessions  []Confession        `gorm:"foreignKey:FamilyID" json:"confessions,omitempty"`
	JoinRequests []FamilyJoinRequest `gorm:"foreignKey:FamilyID" json:"join_requests,omitempty"`
}

// FamilyMembership records that a user belongs to a family. The admin has a
// membership row like everyone else; admin status lives on Family.AdminID.
type FamilyMembership struct {
	FamilyID string    `gorm:"type:varchar(4);primarykey" json:"family_id"`
	UserID   uint64    `gorm:"primarykey" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`

	// Relations
	Family Family `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
