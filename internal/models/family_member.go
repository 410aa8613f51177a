package models

import (
	"time"

	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "SINGLE"
	MaritalMarried  MaritalStatus = "MARRIED"
	MaritalDivorced MaritalStatus = "DIVORCED"
	MaritalWidowed  MaritalStatus = "WIDOWED"
)

// MemberSnapshot captures a member's relational edges at soft-delete time so
// a later restore can reattach them if the neighbors are still eligible.
type MemberSnapshot struct {
	SpouseID         *uint64  `json:"spouse_id,omitempty"`
	FatherID         *uint64  `json:"father_id,omitempty"`
	MotherID         *uint64  `json:"mother_id,omitempty"`
	ChildrenAsFather []uint64 `json:"children_as_father,omitempty"`
	ChildrenAsMother []uint64 `json:"children_as_mother,omitempty"`
}

// FamilyMember is a node in the kinship graph. Father/mother/spouse are
// self-referential ids within the same family; generation strictly increases
// from parent to child.
type FamilyMember struct {
	ID            uint64        `gorm:"primarykey" json:"id"`
	FamilyID      string        `gorm:"type:varchar(4);not null;index" json:"family_id"`
	Name          string        `gorm:"type:varchar(255);not null" json:"name"`
	Gender        Gender        `gorm:"type:varchar(10);not null" json:"gender"`
	Generation    int           `gorm:"not null" json:"generation"`
	BirthDate     *time.Time    `json:"birth_date"`
	DeathDate     *time.Time    `json:"death_date"`
	MarriageDate  *time.Time    `json:"marriage_date"`
	Occupation    string        `gorm:"type:varchar(255)" json:"occupation"`
	Address       string        `gorm:"type:text" json:"address"`
	Email         string        `gorm:"type:varchar(255)" json:"email"`
	MaritalStatus MaritalStatus `gorm:"type:varchar(20);not null;default:'SINGLE'" json:"marital_status"`
	ChildOrder    *int          `json:"child_order"` // explicit sibling rank, optional

	FatherID     *uint64 `json:"father_id"`
	MotherID     *uint64 `json:"mother_id"`
	SpouseID     *uint64 `json:"spouse_id"`
	LinkedUserID *uint64 `gorm:"index" json:"linked_user_id"`
	IsVerified   bool    `gorm:"default:false" json:"is_verified"`

	// Soft-delete state. Not gorm.DeletedAt: deleted members stay queryable
	// for listing filters and restore.
	IsDeleted   bool            `gorm:"default:false;index" json:"is_deleted"`
	DeletedTime *time.Time      `json:"deleted_at"`
	DeletedBy   *uint64         `json:"deleted_by"`
	DeletedData *MemberSnapshot `gorm:"serializer:json" json:"deleted_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Family       Family              `gorm:"foreignKey:FamilyID" json:"-"`
	Father       *FamilyMember       `gorm:"foreignKey:FatherID" json:"father,omitempty"`
	Mother       *FamilyMember       `gorm:"foreignKey:MotherID" json:"mother,omitempty"`
	Spouse       *FamilyMember       `gorm:"foreignKey:SpouseID" json:"spouse,omitempty"`
	LinkedUser   *User               `gorm:"foreignKey:LinkedUserID" json:"linked_user,omitempty"`
	Achievements []MemberAchievement `gorm:"foreignKey:MemberID" json:"achievements,omitempty"`
}

// IsAlive reports whether the member has no recorded death date.
func (m *FamilyMember) IsAlive() bool {
	return m.DeathDate == nil
}

type MemberAchievement struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	MemberID    uint64         `gorm:"not null;index" json:"member_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Year        int            `gorm:"not null" json:"year"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Member FamilyMember `gorm:"foreignKey:MemberID" json:"-"`
}
