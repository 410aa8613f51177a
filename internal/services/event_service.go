package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/repository"
	"gorm.io/gorm"
)

// EventService handles family events.
type EventService struct {
	eventRepo  repository.EventRepository
	familyRepo repository.FamilyRepository
	notifier   *NotificationService
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository, familyRepo repository.FamilyRepository, notifier *NotificationService) *EventService {
	return &EventService{
		eventRepo:  eventRepo,
		familyRepo: familyRepo,
		notifier:   notifier,
	}
}

// EventInput represents parameters to create or update an event.
type EventInput struct {
	Title       string
	Description string
	EventDate   time.Time
	Location    string
}

// CreateEvent creates a family event. Admin only.
func (s *EventService) CreateEvent(familyID string, actorID uint64, input EventInput) (*models.Event, error) {
	if _, err := s.requireAdmin(familyID, actorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.Validation("Event title cannot be empty")
	}
	if input.EventDate.IsZero() {
		return nil, apperrors.Validation("Event date is required")
	}

	event := &models.Event{
		FamilyID:    familyID,
		Title:       input.Title,
		Description: input.Description,
		EventDate:   input.EventDate,
		Location:    input.Location,
		CreatedBy:   actorID,
	}
	if err := s.eventRepo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if s.notifier != nil {
		actor := actorID
		err := s.notifier.NotifyFamilyMembers(familyID, &actor, CreateNotificationInput{
			SenderID: &actor,
			FamilyID: &familyID,
			Type:     models.NotifEventCreated,
			Title:    "New event",
			Message:  fmt.Sprintf("%s was scheduled", event.Title),
		})
		if err != nil {
			log.Printf("[Events] notification fan-out failed for family %s: %v", familyID, err)
		}
	}

	return event, nil
}

// ListEvents lists events of a family. Members only.
func (s *EventService) ListEvents(familyID string, userID uint64) ([]models.Event, error) {
	if err := s.requireMembership(familyID, userID); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByFamily(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListUpcomingEvents lists events within the next days. Members only.
func (s *EventService) ListUpcomingEvents(familyID string, userID uint64, days int) ([]models.Event, error) {
	if err := s.requireMembership(familyID, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	events, err := s.eventRepo.ListInWindow(familyID, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// UpdateEvent updates an event. Admin only.
func (s *EventService) UpdateEvent(familyID string, eventID uint64, actorID uint64, input EventInput) (*models.Event, error) {
	if _, err := s.requireAdmin(familyID, actorID); err != nil {
		return nil, err
	}

	event, err := s.findFamilyEvent(familyID, eventID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.Validation("Event title cannot be empty")
	}
	event.Title = input.Title
	event.Description = input.Description
	if !input.EventDate.IsZero() {
		event.EventDate = input.EventDate
	}
	event.Location = input.Location

	if err := s.eventRepo.Update(event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

// DeleteEvent deletes an event. Admin only.
func (s *EventService) DeleteEvent(familyID string, eventID uint64, actorID uint64) error {
	if _, err := s.requireAdmin(familyID, actorID); err != nil {
		return err
	}

	event, err := s.findFamilyEvent(familyID, eventID)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(event.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (s *EventService) requireAdmin(familyID string, userID uint64) (*models.Family, error) {
	family, err := s.familyRepo.FindByID(familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Family not found")
		}
		return nil, fmt.Errorf("failed to find family: %w", err)
	}
	if family.AdminID != userID {
		return nil, apperrors.Forbidden("Only admin can manage events")
	}
	return family, nil
}

func (s *EventService) requireMembership(familyID string, userID uint64) error {
	if _, err := s.familyRepo.FindMembership(familyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Forbidden("You are not a member of this family")
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	return nil
}

func (s *EventService) findFamilyEvent(familyID string, eventID uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Event not found")
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	if event.FamilyID != familyID {
		return nil, apperrors.NotFound("Event not found")
	}
	return event, nil
}
