package models

import (
	"time"

	"gorm.io/gorm"
)

type Confession struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	FamilyID    string         `gorm:"type:varchar(4);not null;index" json:"family_id"`
	AuthorID    uint64         `gorm:"not null;index" json:"author_id"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	IsAnonymous bool           `gorm:"default:false" json:"is_anonymous"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Family Family `gorm:"foreignKey:FamilyID" json:"-"`
	Author User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
