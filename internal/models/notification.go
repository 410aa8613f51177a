package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type NotificationType string

const (
	NotifJoinRequest         NotificationType = "JOIN_REQUEST"
	NotifJoinApproved        NotificationType = "JOIN_APPROVED"
	NotifJoinRejected        NotificationType = "JOIN_REJECTED"
	NotifMemberAdded         NotificationType = "MEMBER_ADDED"
	NotifMemberUpdated       NotificationType = "MEMBER_UPDATED"
	NotifMemberDeleted       NotificationType = "MEMBER_DELETED"
	NotifMemberRequest       NotificationType = "MEMBER_REQUEST"
	NotifBirthdayReminder    NotificationType = "BIRTHDAY_REMINDER"
	NotifAnniversaryReminder NotificationType = "ANNIVERSARY_REMINDER"
	NotifEventCreated        NotificationType = "EVENT_CREATED"
	NotifEventReminder       NotificationType = "EVENT_REMINDER"
	NotifConfession          NotificationType = "CONFESSION"
	NotifAdminTransfer       NotificationType = "ADMIN_TRANSFER"
)

// ReminderRef builds the entity reference token embedded in reminder
// payloads, e.g. "member:42". The scheduler's duplicate-suppression query
// matches on it.
func ReminderRef(refType string, refID uint64) string {
	return fmt.Sprintf("%s:%d", refType, refID)
}

type Notification struct {
	ID        uint64           `gorm:"primarykey" json:"id"`
	UserID    uint64           `gorm:"not null;index" json:"user_id"`
	SenderID  *uint64          `json:"sender_id"`
	FamilyID  *string          `gorm:"type:varchar(4);index" json:"family_id"`
	Type      NotificationType `gorm:"type:varchar(40);not null;index" json:"type"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Message   string           `gorm:"type:varchar(1000)" json:"message"`
	Data      json.RawMessage  `gorm:"type:text" json:"data,omitempty"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	ReadAt    *time.Time       `json:"read_at"`
	CreatedAt time.Time        `json:"created_at"`

	// Relations
	User   User  `gorm:"foreignKey:UserID" json:"-"`
	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
