package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/repository"
	"gorm.io/gorm"
)

// MemberRequestService lets non-admin members propose tree mutations that
// the admin approves or rejects. Approval executes the embedded mutation
// through the member service.
type MemberRequestService struct {
	requestRepo   repository.MemberRequestRepository
	familyRepo    repository.FamilyRepository
	memberService *MemberService
	notifier      *NotificationService
}

// NewMemberRequestService creates a new MemberRequestService.
func NewMemberRequestService(requestRepo repository.MemberRequestRepository, familyRepo repository.FamilyRepository, memberService *MemberService, notifier *NotificationService) *MemberRequestService {
	return &MemberRequestService{
		requestRepo:   requestRepo,
		familyRepo:    familyRepo,
		memberService: memberService,
		notifier:      notifier,
	}
}

// MemberMutation is the JSON payload embedded in a member request. ADD
// requires name, gender and generation; EDIT treats every field as
// optional; DELETE carries no payload.
type MemberMutation struct {
	Name          *string               `json:"name,omitempty"`
	Gender        *models.Gender        `json:"gender,omitempty"`
	Generation    *int                  `json:"generation,omitempty"`
	BirthDate     *time.Time            `json:"birth_date,omitempty"`
	DeathDate     *time.Time            `json:"death_date,omitempty"`
	MarriageDate  *time.Time            `json:"marriage_date,omitempty"`
	Occupation    *string               `json:"occupation,omitempty"`
	Address       *string               `json:"address,omitempty"`
	Email         *string               `json:"email,omitempty"`
	MaritalStatus *models.MaritalStatus `json:"marital_status,omitempty"`
	ChildOrder    *int                  `json:"child_order,omitempty"`
	FatherID      *uint64               `json:"father_id,omitempty"`
	MotherID      *uint64               `json:"mother_id,omitempty"`
	SpouseID      *uint64               `json:"spouse_id,omitempty"`
}

// CreateMemberRequestInput represents a proposed mutation.
type CreateMemberRequestInput struct {
	FamilyID    string
	RequesterID uint64
	Action      models.MemberRequestAction
	MemberID    *uint64
	Mutation    *MemberMutation
}

// CreateRequest files a proposed mutation. Members only.
func (s *MemberRequestService) CreateRequest(input CreateMemberRequestInput) (*models.MemberRequest, error) {
	family, err := s.familyRepo.FindByID(input.FamilyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Family not found")
		}
		return nil, fmt.Errorf("failed to find family: %w", err)
	}
	if _, err := s.familyRepo.FindMembership(input.FamilyID, input.RequesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Forbidden("You are not a member of this family")
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	switch input.Action {
	case models.MemberRequestAdd:
		if input.Mutation == nil || input.Mutation.Name == nil ||
			input.Mutation.Gender == nil || input.Mutation.Generation == nil {
			return nil, apperrors.Validation("Name, gender and generation are required")
		}
	case models.MemberRequestEdit:
		if input.MemberID == nil || input.Mutation == nil {
			return nil, apperrors.Validation("Member ID and changes are required")
		}
	case models.MemberRequestDelete:
		if input.MemberID == nil {
			return nil, apperrors.Validation("Member ID is required")
		}
	default:
		return nil, apperrors.Validation("Invalid request action")
	}

	var payload json.RawMessage
	if input.Mutation != nil {
		payload, err = json.Marshal(input.Mutation)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
	}

	request := &models.MemberRequest{
		FamilyID:    input.FamilyID,
		RequesterID: input.RequesterID,
		Action:      input.Action,
		MemberID:    input.MemberID,
		Payload:     payload,
		Status:      models.RequestPending,
	}
	if err := s.requestRepo.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create member request: %w", err)
	}

	if s.notifier != nil {
		requester := input.RequesterID
		_, err := s.notifier.CreateNotification(CreateNotificationInput{
			UserID:   family.AdminID,
			SenderID: &requester,
			FamilyID: &input.FamilyID,
			Type:     models.NotifMemberRequest,
			Title:    "New member request",
			Message:  fmt.Sprintf("A %s request awaits your approval", input.Action),
		})
		if err != nil {
			log.Printf("[MemberRequests] notification failed for family %s: %v", input.FamilyID, err)
		}
	}

	return request, nil
}

// ListRequests lists member requests of a family. Admin only.
func (s *MemberRequestService) ListRequests(familyID string, actorID uint64, status *models.RequestStatus) ([]models.MemberRequest, error) {
	if err := s.requireAdmin(familyID, actorID); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.ListByFamily(familyID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list member requests: %w", err)
	}
	return requests, nil
}

// ApproveRequest executes the embedded mutation and marks the request
// approved in one transaction. Admin only.
func (s *MemberRequestService) ApproveRequest(familyID string, requestID uint64, actorID uint64) (*models.MemberRequest, error) {
	if err := s.requireAdmin(familyID, actorID); err != nil {
		return nil, err
	}

	request, err := s.findPending(familyID, requestID)
	if err != nil {
		return nil, err
	}

	var mutation MemberMutation
	if len(request.Payload) > 0 {
		if err := json.Unmarshal(request.Payload, &mutation); err != nil {
			return nil, apperrors.Validation("Request payload is malformed")
		}
	}

	err = s.requestRepo.WithTx(func(requests repository.MemberRequestRepository, members repository.MemberRepository, families repository.FamilyRepository) error {
		memberService := s.memberService.boundTo(members, families)

		var err error
		switch request.Action {
		case models.MemberRequestAdd:
			_, err = memberService.CreateMember(CreateMemberInput{
				FamilyID:      familyID,
				ActorID:       actorID,
				Name:          derefString(mutation.Name),
				Gender:        derefGender(mutation.Gender),
				Generation:    derefInt(mutation.Generation),
				BirthDate:     mutation.BirthDate,
				DeathDate:     mutation.DeathDate,
				MarriageDate:  mutation.MarriageDate,
				Occupation:    derefString(mutation.Occupation),
				Address:       derefString(mutation.Address),
				Email:         derefString(mutation.Email),
				MaritalStatus: derefMaritalStatus(mutation.MaritalStatus),
				ChildOrder:    mutation.ChildOrder,
				FatherID:      mutation.FatherID,
				MotherID:      mutation.MotherID,
				SpouseID:      mutation.SpouseID,
			})
		case models.MemberRequestEdit:
			_, err = memberService.UpdateMember(familyID, *request.MemberID, actorID, UpdateMemberInput{
				Name:          mutation.Name,
				Gender:        mutation.Gender,
				Generation:    mutation.Generation,
				BirthDate:     mutation.BirthDate,
				DeathDate:     mutation.DeathDate,
				MarriageDate:  mutation.MarriageDate,
				Occupation:    mutation.Occupation,
				Address:       mutation.Address,
				Email:         mutation.Email,
				MaritalStatus: mutation.MaritalStatus,
				ChildOrder:    mutation.ChildOrder,
				FatherID:      mutation.FatherID,
				MotherID:      mutation.MotherID,
				SpouseID:      mutation.SpouseID,
			})
		case models.MemberRequestDelete:
			err = memberService.DeleteMember(familyID, *request.MemberID, actorID)
		}
		if err != nil {
			return err
		}

		now := time.Now()
		request.Status = models.RequestApproved
		request.RespondedAt = &now
		if err := requests.Update(request); err != nil {
			return fmt.Errorf("failed to update member request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// RejectRequest declines a pending member request. Admin only.
func (s *MemberRequestService) RejectRequest(familyID string, requestID uint64, actorID uint64) (*models.MemberRequest, error) {
	if err := s.requireAdmin(familyID, actorID); err != nil {
		return nil, err
	}

	request, err := s.findPending(familyID, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request.Status = models.RequestRejected
	request.RespondedAt = &now
	if err := s.requestRepo.Update(request); err != nil {
		return nil, fmt.Errorf("failed to update member request: %w", err)
	}
	return request, nil
}

func (s *MemberRequestService) requireAdmin(familyID string, userID uint64) error {
	family, err := s.familyRepo.FindByID(familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Family not found")
		}
		return fmt.Errorf("failed to find family: %w", err)
	}
	if family.AdminID != userID {
		return apperrors.Forbidden("Only admin can handle member requests")
	}
	return nil
}

func (s *MemberRequestService) findPending(familyID string, requestID uint64) (*models.MemberRequest, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Member request not found")
		}
		return nil, fmt.Errorf("failed to find member request: %w", err)
	}
	if request.FamilyID != familyID {
		return nil, apperrors.NotFound("Member request not found")
	}
	if request.Status != models.RequestPending {
		return nil, apperrors.Conflict("Member request was already processed")
	}
	return request, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func derefGender(g *models.Gender) models.Gender {
	if g == nil {
		return ""
	}
	return *g
}

func derefMaritalStatus(m *models.MaritalStatus) models.MaritalStatus {
	if m == nil {
		return ""
	}
	return *m
}
