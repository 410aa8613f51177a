package models

import (
	"encoding/json"
	"time"
)

type MemberRequestAction string

const (
	MemberRequestAdd    MemberRequestAction = "ADD"
	MemberRequestEdit   MemberRequestAction = "EDIT"
	MemberRequestDelete MemberRequestAction = "DELETE"
)

// MemberRequest is a proposed mutation to a family member, awaiting admin
// approval. Approval executes the embedded payload through the member
// service; the same PENDING -> terminal state machine as join requests.
type MemberRequest struct {
	ID          uint64              `gorm:"primarykey" json:"id"`
	FamilyID    string              `gorm:"type:varchar(4);not null;index" json:"family_id"`
	RequesterID uint64              `gorm:"not null;index" json:"requester_id"`
	Action      MemberRequestAction `gorm:"type:varchar(10);not null" json:"action"`
	MemberID    *uint64             `json:"member_id"` // target for EDIT/DELETE
	Payload     json.RawMessage     `gorm:"type:text" json:"payload,omitempty"`
	Status      RequestStatus       `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	RespondedAt *time.Time          `json:"responded_at"`

	// Relations
	Family    Family `gorm:"foreignKey:FamilyID" json:"family,omitempty"`
	Requester User   `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
}
