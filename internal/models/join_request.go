package models

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

type LinkOption string

const (
	LinkAuto   LinkOption = "AUTO"
	LinkManual LinkOption = "MANUAL"
	LinkNew    LinkOption = "NEW"
)

// ApprovalData records how a join request was linked to a family member.
type ApprovalData struct {
	LinkOption LinkOption `json:"link_option"`
	MemberID   *uint64    `json:"member_id,omitempty"`
	Similarity *float64   `json:"similarity,omitempty"`
}

// FamilyJoinRequest is unique per (family, user) while pending. Once
// approved or rejected it is terminal; a fresh request after rejection
// replaces the old row.
type FamilyJoinRequest struct {
	ID           uint64        `gorm:"primarykey" json:"id"`
	FamilyID     string        `gorm:"type:varchar(4);not null;index" json:"family_id"`
	UserID       uint64        `gorm:"not null;index" json:"user_id"`
	Message      string        `gorm:"type:varchar(500)" json:"message"`
	Status       RequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ApprovalData *ApprovalData `gorm:"serializer:json" json:"approval_data,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	RespondedAt  *time.Time    `json:"responded_at"`

	// Relations
	Family Family `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
