package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/constants"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/repository"
	"github.com/kinship-app/kinship/internal/utils"
	"gorm.io/gorm"
)

const maxFamilyCodeDraws = 20

// FamilyService handles family lifecycle, the join workflow with identity
// linking, admin transfer and aggregate statistics.
type FamilyService struct {
	familyRepo repository.FamilyRepository
	memberRepo repository.MemberRepository
	userRepo   repository.UserRepository
	notifier   *NotificationService
}

// NewFamilyService creates a new FamilyService.
func NewFamilyService(familyRepo repository.FamilyRepository, memberRepo repository.MemberRepository, userRepo repository.UserRepository, notifier *NotificationService) *FamilyService {
	return &FamilyService{
		familyRepo: familyRepo,
		memberRepo: memberRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// CreateFamilyInput represents parameters to create a new family.
type CreateFamilyInput struct {
	Name        string
	Description string
	AdminID     uint64
}

// CreateFamily draws a free 4-digit code and creates the family with the
// creator as admin and first member.
func (s *FamilyService) CreateFamily(input CreateFamilyInput) (*models.Family, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.Validation("Family name cannot be empty")
	}

	code, err := s.drawFamilyCode()
	if err != nil {
		return nil, err
	}

	family := &models.Family{
		ID:          code,
		Name:        input.Name,
		Description: input.Description,
		AdminID:     input.AdminID,
	}
	membership := &models.FamilyMembership{
		UserID:   input.AdminID,
		JoinedAt: time.Now(),
	}

	if err := s.familyRepo.Create(family, membership); err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}
	return family, nil
}

// GetFamily returns a family with its memberships. Members only.
func (s *FamilyService) GetFamily(familyID string, userID uint64) (*models.Family, []models.FamilyMembership, error) {
	family, err := s.findFamily(familyID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.familyRepo.FindMembership(familyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.Forbidden("You are not a member of this family")
		}
		return nil, nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	memberships, err := s.familyRepo.ListMemberships(familyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return family, memberships, nil
}

// ListFamiliesForUser returns the families a user belongs to.
func (s *FamilyService) ListFamiliesForUser(userID uint64) ([]models.FamilyMembership, error) {
	memberships, err := s.familyRepo.ListMembershipsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list families: %w", err)
	}
	return memberships, nil
}

// UpdateFamilyInput represents a partial family update.
type UpdateFamilyInput struct {
	Name        *string
	Description *string
}

// UpdateFamily updates the family's name or description. Admin only.
func (s *FamilyService) UpdateFamily(familyID string, actorID uint64, input UpdateFamilyInput) (*models.Family, error) {
	family, err := s.requireAdmin(familyID, actorID, "Only admin can update the family")
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.Validation("Family name cannot be empty")
		}
		family.Name = *input.Name
	}
	if input.Description != nil {
		family.Description = *input.Description
	}

	if err := s.familyRepo.Update(family); err != nil {
		return nil, fmt.Errorf("failed to update family: %w", err)
	}
	return family, nil
}

// DeleteFamily removes a family and everything scoped to it. Admin only.
func (s *FamilyService) DeleteFamily(familyID string, actorID uint64) error {
	if _, err := s.requireAdmin(familyID, actorID, "Only admin can delete the family"); err != nil {
		return err
	}
	if err := s.familyRepo.Delete(familyID); err != nil {
		return fmt.Errorf("failed to delete family: %w", err)
	}
	return nil
}

// TransferAdmin hands family administration to another member.
func (s *FamilyService) TransferAdmin(familyID string, actorID, newAdminID uint64) (*models.Family, error) {
	family, err := s.requireAdmin(familyID, actorID, "Only admin can transfer administration")
	if err != nil {
		return nil, err
	}
	if newAdminID == actorID {
		return nil, apperrors.Validation("You are already the admin")
	}
	if _, err := s.familyRepo.FindMembership(familyID, newAdminID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("New admin must be a member of the family")
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	family.AdminID = newAdminID
	if err := s.familyRepo.Update(family); err != nil {
		return nil, fmt.Errorf("failed to transfer admin: %w", err)
	}

	s.notify(newAdminID, &actorID, &familyID, models.NotifAdminTransfer,
		"You are now the admin", fmt.Sprintf("You are now the admin of %s", family.Name))

	return family, nil
}

// CreateJoinRequest files a request of a user to join a family. A prior
// rejected request is replaced; a pending or approved one blocks.
func (s *FamilyService) CreateJoinRequest(familyID string, userID uint64, message string) (*models.FamilyJoinRequest, error) {
	family, err := s.findFamily(familyID)
	if err != nil {
		return nil, err
	}

	if _, err := s.familyRepo.FindMembership(familyID, userID); err == nil {
		return nil, apperrors.Conflict("You are already a member of this family")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	if existing, err := s.familyRepo.FindJoinRequest(familyID, userID); err == nil {
		switch existing.Status {
		case models.RequestPending:
			return nil, apperrors.Conflict("You already have a pending join request")
		case models.RequestApproved:
			return nil, apperrors.Conflict("Your join request was already approved")
		case models.RequestRejected:
			if err := s.familyRepo.DeleteJoinRequest(existing.ID); err != nil {
				return nil, fmt.Errorf("failed to replace rejected request: %w", err)
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check join request: %w", err)
	}

	request := &models.FamilyJoinRequest{
		FamilyID: familyID,
		UserID:   userID,
		Message:  message,
		Status:   models.RequestPending,
	}
	if err := s.familyRepo.CreateJoinRequest(request); err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	s.notify(family.AdminID, &userID, &familyID, models.NotifJoinRequest,
		"New join request", "Someone asked to join your family")

	return request, nil
}

// ListJoinRequests lists join requests of a family. Admin only.
func (s *FamilyService) ListJoinRequests(familyID string, actorID uint64, status *models.RequestStatus) ([]models.FamilyJoinRequest, error) {
	if _, err := s.requireAdmin(familyID, actorID, "Only admin can view join requests"); err != nil {
		return nil, err
	}

	requests, err := s.familyRepo.ListJoinRequests(familyID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	return requests, nil
}

// MatchCandidate is an unlinked member scored against a join requester.
type MatchCandidate struct {
	Member     models.FamilyMember `json:"member"`
	Similarity float64             `json:"similarity"`
}

// JoinRequestSuggestions is the admin's view when handling a request.
type JoinRequestSuggestions struct {
	Request         models.FamilyJoinRequest `json:"request"`
	AutoMatch       *MatchCandidate          `json:"auto_match,omitempty"`
	PossibleMatches []MatchCandidate         `json:"possible_matches"`
}

// GetJoinRequestSuggestions scores the requester's name against every
// unlinked member. An auto-match needs exact (case-insensitive) email
// equality and similarity of at least 0.7; possible matches are those
// above 0.5, sorted descending, capped at 10.
func (s *FamilyService) GetJoinRequestSuggestions(familyID string, requestID uint64, actorID uint64) (*JoinRequestSuggestions, error) {
	if _, err := s.requireAdmin(familyID, actorID, "Only admin can view join requests"); err != nil {
		return nil, err
	}

	request, err := s.findPendingRequest(familyID, requestID)
	if err != nil {
		return nil, err
	}

	requester, err := s.userRepo.FindByID(request.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find requester: %w", err)
	}

	candidates, err := s.memberRepo.ListUnlinked(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlinked members: %w", err)
	}

	suggestions := &JoinRequestSuggestions{Request: *request}
	for _, member := range candidates {
		score := utils.NameSimilarity(requester.Name, member.Name)

		if suggestions.AutoMatch == nil &&
			member.Email != "" &&
			strings.EqualFold(member.Email, requester.Email) &&
			score >= constants.AutoMatchThreshold {
			m := member
			suggestions.AutoMatch = &MatchCandidate{Member: m, Similarity: score}
		}

		if score > constants.PossibleMatchThreshold {
			suggestions.PossibleMatches = append(suggestions.PossibleMatches, MatchCandidate{
				Member:     member,
				Similarity: score,
			})
		}
	}

	sort.SliceStable(suggestions.PossibleMatches, func(i, j int) bool {
		return suggestions.PossibleMatches[i].Similarity > suggestions.PossibleMatches[j].Similarity
	})
	if len(suggestions.PossibleMatches) > constants.MaxMatchSuggestions {
		suggestions.PossibleMatches = suggestions.PossibleMatches[:constants.MaxMatchSuggestions]
	}

	return suggestions, nil
}

// HandleJoinRequestInput carries the admin's approval decision.
type HandleJoinRequestInput struct {
	LinkOption models.LinkOption
	MemberID   *uint64 // required for MANUAL
}

// HandleJoinRequestWithLink approves a pending join request, optionally
// linking the requester to an existing member, in a single transaction.
func (s *FamilyService) HandleJoinRequestWithLink(familyID string, requestID uint64, actorID uint64, input HandleJoinRequestInput) (*models.FamilyJoinRequest, error) {
	if _, err := s.requireAdmin(familyID, actorID, "Only admin can handle join requests"); err != nil {
		return nil, err
	}

	request, err := s.findPendingRequest(familyID, requestID)
	if err != nil {
		return nil, err
	}

	requester, err := s.userRepo.FindByID(request.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find requester: %w", err)
	}

	var linked *models.FamilyMember
	approval := &models.ApprovalData{LinkOption: input.LinkOption}

	switch input.LinkOption {
	case models.LinkAuto:
		linked, err = s.resolveAutoLink(familyID, requester)
		if err != nil {
			return nil, err
		}
	case models.LinkManual:
		if input.MemberID == nil {
			return nil, apperrors.Validation("Member ID is required for manual linking")
		}
		linked, err = s.resolveManualLink(familyID, *input.MemberID, requester, approval)
		if err != nil {
			return nil, err
		}
	case models.LinkNew:
		// no linking, membership only
	default:
		return nil, apperrors.Validation("Invalid link option")
	}

	if linked != nil {
		approval.MemberID = &linked.ID
	}

	err = s.familyRepo.WithTx(func(families repository.FamilyRepository, members repository.MemberRepository) error {
		now := time.Now()
		request.Status = models.RequestApproved
		request.RespondedAt = &now
		request.ApprovalData = approval
		if err := families.UpdateJoinRequest(request); err != nil {
			return fmt.Errorf("failed to update join request: %w", err)
		}

		if err := families.AddMembership(&models.FamilyMembership{
			FamilyID: familyID,
			UserID:   request.UserID,
			JoinedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to add membership: %w", err)
		}

		if linked != nil {
			if err := members.UpdateColumns(linked.ID, map[string]interface{}{
				"linked_user_id": request.UserID,
				"email":          requester.Email,
				"is_verified":    true,
			}); err != nil {
				return fmt.Errorf("failed to link member: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(request.UserID, &actorID, &familyID, models.NotifJoinApproved,
		"Join request approved", "Your join request was approved")

	return request, nil
}

// RejectJoinRequest declines a pending join request. Admin only.
func (s *FamilyService) RejectJoinRequest(familyID string, requestID uint64, actorID uint64) (*models.FamilyJoinRequest, error) {
	if _, err := s.requireAdmin(familyID, actorID, "Only admin can handle join requests"); err != nil {
		return nil, err
	}

	request, err := s.findPendingRequest(familyID, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request.Status = models.RequestRejected
	request.RespondedAt = &now
	if err := s.familyRepo.UpdateJoinRequest(request); err != nil {
		return nil, fmt.Errorf("failed to update join request: %w", err)
	}

	s.notify(request.UserID, &actorID, &familyID, models.NotifJoinRejected,
		"Join request rejected", "Your join request was rejected")

	return request, nil
}

// LeaveFamily removes a user from a family. The sole admin of a family
// with other members must transfer administration first. Leaving unlinks
// any member row pointing at the user.
func (s *FamilyService) LeaveFamily(familyID string, userID uint64) error {
	family, err := s.findFamily(familyID)
	if err != nil {
		return err
	}
	if _, err := s.familyRepo.FindMembership(familyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Forbidden("You are not a member of this family")
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}

	if family.AdminID == userID {
		count, err := s.familyRepo.CountMemberships(familyID)
		if err != nil {
			return fmt.Errorf("failed to count memberships: %w", err)
		}
		if count > 1 {
			return apperrors.Conflict("Transfer admin before leaving the family")
		}
	}

	return s.familyRepo.WithTx(func(families repository.FamilyRepository, members repository.MemberRepository) error {
		if linked, err := members.FindByLinkedUser(familyID, userID); err == nil {
			if err := members.UpdateColumns(linked.ID, map[string]interface{}{
				"linked_user_id": nil,
				"is_verified":    false,
			}); err != nil {
				return fmt.Errorf("failed to unlink member: %w", err)
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find linked member: %w", err)
		}

		if err := families.RemoveMembership(familyID, userID); err != nil {
			return fmt.Errorf("failed to remove membership: %w", err)
		}
		return nil
	})
}

// YearStatistics counts life events of one calendar year.
type YearStatistics struct {
	Year      int `json:"year"`
	Births    int `json:"births"`
	Marriages int `json:"marriages"`
	Deaths    int `json:"deaths"`
}

// FamilyStatistics aggregates life events per calendar year.
type FamilyStatistics struct {
	Years          []YearStatistics `json:"years"`
	TotalBirths    int              `json:"total_births"`
	TotalMarriages int              `json:"total_marriages"`
	TotalDeaths    int              `json:"total_deaths"`
}

// GetFamilyStatistics buckets birth, marriage and death dates of the
// family's non-deleted members by calendar year within an optional
// [fromYear, toYear] window.
func (s *FamilyService) GetFamilyStatistics(familyID string, userID uint64, fromYear, toYear *int) (*FamilyStatistics, error) {
	if _, err := s.findFamily(familyID); err != nil {
		return nil, err
	}
	if _, err := s.familyRepo.FindMembership(familyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Forbidden("You are not a member of this family")
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	members, err := s.memberRepo.List(repository.MemberFilter{FamilyID: familyID})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	inWindow := func(year int) bool {
		if fromYear != nil && year < *fromYear {
			return false
		}
		if toYear != nil && year > *toYear {
			return false
		}
		return true
	}

	byYear := make(map[int]*YearStatistics)
	bucket := func(year int) *YearStatistics {
		if byYear[year] == nil {
			byYear[year] = &YearStatistics{Year: year}
		}
		return byYear[year]
	}

	stats := &FamilyStatistics{}
	for _, m := range members {
		if m.BirthDate != nil && inWindow(m.BirthDate.Year()) {
			bucket(m.BirthDate.Year()).Births++
			stats.TotalBirths++
		}
		if m.MarriageDate != nil && inWindow(m.MarriageDate.Year()) {
			bucket(m.MarriageDate.Year()).Marriages++
			stats.TotalMarriages++
		}
		if m.DeathDate != nil && inWindow(m.DeathDate.Year()) {
			bucket(m.DeathDate.Year()).Deaths++
			stats.TotalDeaths++
		}
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		stats.Years = append(stats.Years, *byYear[year])
	}

	return stats, nil
}

// --- helpers ---

func (s *FamilyService) drawFamilyCode() (string, error) {
	for i := 0; i < maxFamilyCodeDraws; i++ {
		code, err := utils.GenerateFamilyCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate family code: %w", err)
		}
		taken, err := s.familyRepo.ExistsByID(code)
		if err != nil {
			return "", fmt.Errorf("failed to check family code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", apperrors.Conflict("No free family code available, try again")
}

func (s *FamilyService) findFamily(familyID string) (*models.Family, error) {
	family, err := s.familyRepo.FindByID(familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Family not found")
		}
		return nil, fmt.Errorf("failed to find family: %w", err)
	}
	return family, nil
}

func (s *FamilyService) requireAdmin(familyID string, userID uint64, forbiddenMsg string) (*models.Family, error) {
	family, err := s.findFamily(familyID)
	if err != nil {
		return nil, err
	}
	if family.AdminID != userID {
		return nil, apperrors.Forbidden(forbiddenMsg)
	}
	return family, nil
}

func (s *FamilyService) findPendingRequest(familyID string, requestID uint64) (*models.FamilyJoinRequest, error) {
	request, err := s.familyRepo.FindJoinRequestByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Join request not found")
		}
		return nil, fmt.Errorf("failed to find join request: %w", err)
	}
	if request.FamilyID != familyID {
		return nil, apperrors.NotFound("Join request not found")
	}
	if request.Status != models.RequestPending {
		return nil, apperrors.Conflict("Join request was already processed")
	}
	return request, nil
}

// resolveAutoLink finds the unlinked member whose email exactly matches
// the requester's.
func (s *FamilyService) resolveAutoLink(familyID string, requester *models.User) (*models.FamilyMember, error) {
	candidates, err := s.memberRepo.ListUnlinked(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlinked members: %w", err)
	}
	for i := range candidates {
		if candidates[i].Email != "" && strings.EqualFold(candidates[i].Email, requester.Email) {
			return &candidates[i], nil
		}
	}
	return nil, apperrors.NotFound("No member matches the requester's email")
}

// resolveManualLink validates the admin-picked member: it must be unlinked
// and pass the 0.7 name-similarity gate.
func (s *FamilyService) resolveManualLink(familyID string, memberID uint64, requester *models.User, approval *models.ApprovalData) (*models.FamilyMember, error) {
	member, err := s.memberRepo.FindInFamily(familyID, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Member not found")
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	if member.IsDeleted {
		return nil, apperrors.NotFound("Member not found")
	}
	if member.LinkedUserID != nil {
		return nil, apperrors.Conflict("Member is already linked to another user")
	}

	score := utils.NameSimilarity(requester.Name, member.Name)
	if score < constants.AutoMatchThreshold {
		return nil, apperrors.Validation("Name similarity is too low for manual linking")
	}
	approval.Similarity = &score

	return member, nil
}

func (s *FamilyService) notify(userID uint64, senderID *uint64, familyID *string, ntype models.NotificationType, title, message string) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.CreateNotification(CreateNotificationInput{
		UserID:   userID,
		SenderID: senderID,
		FamilyID: familyID,
		Type:     ntype,
		Title:    title,
		Message:  message,
	})
	if err != nil {
		log.Printf("[Families] notification failed for user %d: %v", userID, err)
	}
}
