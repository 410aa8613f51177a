package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/realtime"
	"github.com/kinship-app/kinship/internal/repository"
	"github.com/kinship-app/kinship/internal/utils"
	"gorm.io/gorm"
)

// NotificationService stores notifications and pushes them over the
// realtime hub. It is a side channel: callers treat failures as
// non-fatal and log them.
type NotificationService struct {
	notifRepo  repository.NotificationRepository
	familyRepo repository.FamilyRepository
	hub        *realtime.Hub
}

// NewNotificationService creates a new NotificationService. hub may be nil
// (tests, scheduler-only processes); emission is skipped then.
func NewNotificationService(notifRepo repository.NotificationRepository, familyRepo repository.FamilyRepository, hub *realtime.Hub) *NotificationService {
	return &NotificationService{
		notifRepo:  notifRepo,
		familyRepo: familyRepo,
		hub:        hub,
	}
}

// CreateNotificationInput describes a single notification to one user.
type CreateNotificationInput struct {
	UserID   uint64
	SenderID *uint64
	FamilyID *string
	Type     models.NotificationType
	Title    string
	Message  string
	Data     json.RawMessage
}

// CreateNotification stores one notification and pushes it to the recipient.
func (s *NotificationService) CreateNotification(input CreateNotificationInput) (*models.Notification, error) {
	n := &models.Notification{
		UserID:   input.UserID,
		SenderID: input.SenderID,
		FamilyID: input.FamilyID,
		Type:     input.Type,
		Title:    input.Title,
		Message:  input.Message,
		Data:     input.Data,
	}

	if err := s.notifRepo.Create(n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.emit(n)
	return n, nil
}

// NotifyFamilyMembers stores one notification per user of the family,
// skipping exceptUserID (usually the actor).
func (s *NotificationService) NotifyFamilyMembers(familyID string, exceptUserID *uint64, input CreateNotificationInput) error {
	memberships, err := s.familyRepo.ListMemberships(familyID)
	if err != nil {
		return fmt.Errorf("failed to list family memberships: %w", err)
	}

	notifications := make([]models.Notification, 0, len(memberships))
	for _, m := range memberships {
		if exceptUserID != nil && m.UserID == *exceptUserID {
			continue
		}
		notifications = append(notifications, models.Notification{
			UserID:   m.UserID,
			SenderID: input.SenderID,
			FamilyID: &familyID,
			Type:     input.Type,
			Title:    input.Title,
			Message:  input.Message,
			Data:     input.Data,
		})
	}

	if err := s.notifRepo.CreateBatch(notifications); err != nil {
		return fmt.Errorf("failed to create notifications: %w", err)
	}

	for i := range notifications {
		s.emit(&notifications[i])
	}
	return nil
}

// ListForUser returns a user's notifications, newest first.
func (s *NotificationService) ListForUser(userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error) {
	notifications, total, err := s.notifRepo.ListByUser(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// UnreadCount returns the number of unread notifications of a user.
func (s *NotificationService) UnreadCount(userID uint64) (int64, error) {
	count, err := s.notifRepo.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips one notification to read. Only the addressee may do so.
func (s *NotificationService) MarkRead(userID, notificationID uint64) error {
	n, err := s.notifRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Notification not found")
		}
		return fmt.Errorf("failed to find notification: %w", err)
	}

	if n.UserID != userID {
		return apperrors.NotFound("Notification not found")
	}

	if err := s.notifRepo.MarkRead(notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead flips all of a user's notifications to read.
func (s *NotificationService) MarkAllRead(userID uint64) error {
	if err := s.notifRepo.MarkAllRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *NotificationService) emit(n *models.Notification) {
	if s.hub == nil {
		return
	}
	s.hub.EmitToUser(n.UserID, "notification", n)
}
