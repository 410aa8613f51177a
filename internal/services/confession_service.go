package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/constants"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/repository"
	"github.com/kinship-app/kinship/internal/utils"
	"gorm.io/gorm"
)

// ConfessionService handles family confessions with a daily per-author cap.
type ConfessionService struct {
	confessionRepo repository.ConfessionRepository
	familyRepo     repository.FamilyRepository
	notifier       *NotificationService
}

// NewConfessionService creates a new ConfessionService.
func NewConfessionService(confessionRepo repository.ConfessionRepository, familyRepo repository.FamilyRepository, notifier *NotificationService) *ConfessionService {
	return &ConfessionService{
		confessionRepo: confessionRepo,
		familyRepo:     familyRepo,
		notifier:       notifier,
	}
}

// CreateConfessionInput represents parameters to post a confession.
type CreateConfessionInput struct {
	FamilyID    string
	AuthorID    uint64
	Content     string
	IsAnonymous bool
}

// CreateConfession posts a confession. Members only, at most three per
// author per calendar day.
func (s *ConfessionService) CreateConfession(input CreateConfessionInput) (*models.Confession, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.Validation("Confession content cannot be empty")
	}

	if _, err := s.familyRepo.FindMembership(input.FamilyID, input.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Forbidden("You are not a member of this family")
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	now := time.Now()
	count, err := s.confessionRepo.CountByAuthorSince(input.FamilyID, input.AuthorID, startOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("failed to count confessions: %w", err)
	}
	if count >= constants.ConfessionDailyCap {
		return nil, apperrors.RateLimited("Confession limit reached for today")
	}

	confession := &models.Confession{
		FamilyID:    input.FamilyID,
		AuthorID:    input.AuthorID,
		Content:     input.Content,
		IsAnonymous: input.IsAnonymous,
	}
	if err := s.confessionRepo.Create(confession); err != nil {
		return nil, fmt.Errorf("failed to create confession: %w", err)
	}

	if s.notifier != nil {
		author := input.AuthorID
		notifInput := CreateNotificationInput{
			FamilyID: &confession.FamilyID,
			Type:     models.NotifConfession,
			Title:    "New confession",
			Message:  "A new confession was posted in your family",
		}
		if !confession.IsAnonymous {
			notifInput.SenderID = &author
		}
		if err := s.notifier.NotifyFamilyMembers(confession.FamilyID, &author, notifInput); err != nil {
			log.Printf("[Confessions] notification fan-out failed for family %s: %v", confession.FamilyID, err)
		}
	}

	return confession, nil
}

// ListConfessions lists a family's confessions, newest first. Members only.
func (s *ConfessionService) ListConfessions(familyID string, userID uint64, params utils.PaginationParams) ([]models.Confession, int64, error) {
	if _, err := s.familyRepo.FindMembership(familyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, apperrors.Forbidden("You are not a member of this family")
		}
		return nil, 0, fmt.Errorf("failed to verify membership: %w", err)
	}

	confessions, total, err := s.confessionRepo.ListByFamily(familyID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list confessions: %w", err)
	}
	return confessions, total, nil
}

// DeleteConfession removes a confession. Author or family admin only.
func (s *ConfessionService) DeleteConfession(familyID string, confessionID uint64, actorID uint64) error {
	confession, err := s.confessionRepo.FindByID(confessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Confession not found")
		}
		return fmt.Errorf("failed to find confession: %w", err)
	}
	if confession.FamilyID != familyID {
		return apperrors.NotFound("Confession not found")
	}

	if confession.AuthorID != actorID {
		family, err := s.familyRepo.FindByID(familyID)
		if err != nil {
			return fmt.Errorf("failed to find family: %w", err)
		}
		if family.AdminID != actorID {
			return apperrors.Forbidden("Only the author or admin can delete a confession")
		}
	}

	if err := s.confessionRepo.Delete(confessionID); err != nil {
		return fmt.Errorf("failed to delete confession: %w", err)
	}
	return nil
}
