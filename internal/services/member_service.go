package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/kinship-app/kinship/internal/apperrors"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/repository"
	"gorm.io/gorm"
)

// MemberService maintains family members and their father/mother/spouse/child
// edges. Every multi-step relationship mutation runs inside one transaction
// so reciprocal links never end up half applied.
type MemberService struct {
	memberRepo repository.MemberRepository
	familyRepo repository.FamilyRepository
	notifier   *NotificationService
}

// NewMemberService creates a new MemberService.
func NewMemberService(memberRepo repository.MemberRepository, familyRepo repository.FamilyRepository, notifier *NotificationService) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		familyRepo: familyRepo,
		notifier:   notifier,
	}
}

// boundTo returns a copy of the service running against transaction-bound
// repositories, so mutations driven by a request approval commit together
// with the request's status flip.
func (s *MemberService) boundTo(members repository.MemberRepository, families repository.FamilyRepository) *MemberService {
	clone := *s
	clone.memberRepo = members
	clone.familyRepo = families
	return &clone
}

// CreateMemberInput represents parameters to add a member to the tree.
type CreateMemberInput struct {
	FamilyID      string
	ActorID       uint64
	Name          string
	Gender        models.Gender
	Generation    int
	BirthDate     *time.Time
	DeathDate     *time.Time
	MarriageDate  *time.Time
	Occupation    string
	Address       string
	Email         string
	MaritalStatus models.MaritalStatus
	ChildOrder    *int
	FatherID      *uint64
	MotherID      *uint64
	SpouseID      *uint64
	IsMe          bool
}

// UpdateMemberInput represents a partial update; nil fields keep the
// existing value, Clear* flags drop a relationship.
type UpdateMemberInput struct {
	Name          *string
	Gender        *models.Gender
	Generation    *int
	BirthDate     *time.Time
	DeathDate     *time.Time
	MarriageDate  *time.Time
	Occupation    *string
	Address       *string
	Email         *string
	MaritalStatus *models.MaritalStatus
	ChildOrder    *int
	FatherID      *uint64
	MotherID      *uint64
	SpouseID      *uint64
	ClearFather   bool
	ClearMother   bool
	ClearSpouse   bool
}

// MemberDetail is the assembled view of one member and its relatives.
type MemberDetail struct {
	Member   models.FamilyMember
	Father   *models.FamilyMember
	Mother   *models.FamilyMember
	Spouse   *models.FamilyMember
	Children []models.FamilyMember
	Siblings []models.FamilyMember
	MyOrder  int
}

// YearlyReportEntry aggregates achievements of a family for one year.
type YearlyReportEntry struct {
	Year         int                        `json:"year"`
	Count        int                        `json:"count"`
	Achievements []models.MemberAchievement `json:"achievements"`
}

// CreateMember validates the kinship invariants and inserts a member,
// wiring parent auto-derivation and the reciprocal spouse link.
func (s *MemberService) CreateMember(input CreateMemberInput) (*models.FamilyMember, error) {
	family, err := s.requireAdmin(input.FamilyID, input.ActorID, "Only admin can create members")
	if err != nil {
		return nil, err
	}

	if input.IsMe {
		if _, err := s.memberRepo.FindByLinkedUser(input.FamilyID, input.ActorID); err == nil {
			return nil, apperrors.Conflict("You are already linked to a member in this family")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check linked member: %w", err)
		}
	}

	var member *models.FamilyMember
	err = s.memberRepo.WithTx(func(repo repository.MemberRepository) error {
		fatherID, motherID, err := s.resolveParents(repo, input.FamilyID, input.Generation, input.FatherID, input.MotherID, true)
		if err != nil {
			return err
		}

		maritalStatus := input.MaritalStatus
		if maritalStatus == "" {
			maritalStatus = models.MaritalSingle
		}

		member = &models.FamilyMember{
			FamilyID:      input.FamilyID,
			Name:          input.Name,
			Gender:        input.Gender,
			Generation:    input.Generation,
			BirthDate:     input.BirthDate,
			DeathDate:     input.DeathDate,
			MarriageDate:  input.MarriageDate,
			Occupation:    input.Occupation,
			Address:       input.Address,
			Email:         input.Email,
			MaritalStatus: maritalStatus,
			ChildOrder:    input.ChildOrder,
			FatherID:      fatherID,
			MotherID:      motherID,
		}
		if input.IsMe {
			actorID := input.ActorID
			member.LinkedUserID = &actorID
			member.IsVerified = true
		}

		var spouse *models.FamilyMember
		if input.SpouseID != nil {
			spouse, err = s.loadMember(repo, input.FamilyID, *input.SpouseID)
			if err != nil {
				return err
			}
			if spouse.SpouseID != nil {
				return apperrors.Conflict("This member is already married")
			}
			if err := validateSpouseGender(input.Gender, spouse.Gender); err != nil {
				return err
			}
			member.SpouseID = input.SpouseID
			member.MaritalStatus = models.MaritalMarried
		}

		if err := repo.Create(member); err != nil {
			return fmt.Errorf("failed to create member: %w", err)
		}

		if spouse != nil {
			if err := repo.UpdateColumns(spouse.ID, map[string]interface{}{
				"spouse_id":      member.ID,
				"marital_status": models.MaritalMarried,
			}); err != nil {
				return fmt.Errorf("failed to link spouse: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyFamily(family.ID, input.ActorID, models.NotifMemberAdded,
		"Member added", fmt.Sprintf("%s was added to the family tree", member.Name))

	return member, nil
}

// UpdateMember re-validates the kinship invariants against the post-merge
// field values and keeps spouse links symmetric.
func (s *MemberService) UpdateMember(familyID string, memberID uint64, actorID uint64, input UpdateMemberInput) (*models.FamilyMember, error) {
	family, err := s.requireAdmin(familyID, actorID, "Only admin can update members")
	if err != nil {
		return nil, err
	}

	var member *models.FamilyMember
	err = s.memberRepo.WithTx(func(repo repository.MemberRepository) error {
		member, err = s.loadMember(repo, familyID, memberID)
		if err != nil {
			return err
		}

		oldSpouseID := member.SpouseID
		applyMemberUpdate(member, input)

		// derivation is a create-time courtesy; on update it would undo an
		// explicit ClearFather/ClearMother whenever the remaining parent
		// has a spouse
		fatherID, motherID, err := s.resolveParents(repo, familyID, member.Generation, member.FatherID, member.MotherID, false)
		if err != nil {
			return err
		}
		member.FatherID = fatherID
		member.MotherID = motherID

		if member.SpouseID != nil {
			if *member.SpouseID == member.ID {
				return apperrors.Validation("Cannot set a member as their own spouse")
			}
			spouse, err := s.loadMember(repo, familyID, *member.SpouseID)
			if err != nil {
				return err
			}
			if spouse.SpouseID != nil && *spouse.SpouseID != member.ID {
				return apperrors.Conflict("This member is already married")
			}
			if err := validateSpouseGender(member.Gender, spouse.Gender); err != nil {
				return err
			}
		}

		spouseChanged := !equalID(oldSpouseID, member.SpouseID)
		if spouseChanged {
			if oldSpouseID != nil {
				if err := repo.UpdateColumns(*oldSpouseID, map[string]interface{}{
					"spouse_id":      nil,
					"marital_status": models.MaritalSingle,
				}); err != nil {
					return fmt.Errorf("failed to unlink old spouse: %w", err)
				}
			}
			if member.SpouseID != nil {
				if err := repo.UpdateColumns(*member.SpouseID, map[string]interface{}{
					"spouse_id":      member.ID,
					"marital_status": models.MaritalMarried,
				}); err != nil {
					return fmt.Errorf("failed to link new spouse: %w", err)
				}
				member.MaritalStatus = models.MaritalMarried
			} else if member.MaritalStatus == models.MaritalMarried {
				member.MaritalStatus = models.MaritalSingle
			}
		}

		if err := repo.Update(member); err != nil {
			return fmt.Errorf("failed to update member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyFamily(family.ID, actorID, models.NotifMemberUpdated,
		"Member updated", fmt.Sprintf("%s's details were updated", member.Name))

	return member, nil
}

// DeleteMember soft-deletes a member: it snapshots the relational edges,
// clears the spouse's reciprocal link and the children's parent pointers,
// and marks the row deleted.
func (s *MemberService) DeleteMember(familyID string, memberID uint64, actorID uint64) error {
	family, err := s.requireAdmin(familyID, actorID, "Only admin can delete members")
	if err != nil {
		return err
	}

	var name string
	err = s.memberRepo.WithTx(func(repo repository.MemberRepository) error {
		member, err := repo.FindInFamily(familyID, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Member not found")
			}
			return fmt.Errorf("failed to find member: %w", err)
		}
		if member.IsDeleted {
			return apperrors.Conflict("Member is already deleted")
		}
		name = member.Name

		childrenAsFather, err := repo.ListChildren("father_id", member.ID)
		if err != nil {
			return fmt.Errorf("failed to list children: %w", err)
		}
		childrenAsMother, err := repo.ListChildren("mother_id", member.ID)
		if err != nil {
			return fmt.Errorf("failed to list children: %w", err)
		}

		snapshot := &models.MemberSnapshot{
			SpouseID:         member.SpouseID,
			FatherID:         member.FatherID,
			MotherID:         member.MotherID,
			ChildrenAsFather: memberIDs(childrenAsFather),
			ChildrenAsMother: memberIDs(childrenAsMother),
		}

		if member.SpouseID != nil {
			if err := repo.UpdateColumns(*member.SpouseID, map[string]interface{}{
				"spouse_id": nil,
			}); err != nil {
				return fmt.Errorf("failed to unlink spouse: %w", err)
			}
		}

		for _, child := range childrenAsFather {
			if err := repo.UpdateColumns(child.ID, map[string]interface{}{"father_id": nil}); err != nil {
				return fmt.Errorf("failed to clear child father link: %w", err)
			}
		}
		for _, child := range childrenAsMother {
			if err := repo.UpdateColumns(child.ID, map[string]interface{}{"mother_id": nil}); err != nil {
				return fmt.Errorf("failed to clear child mother link: %w", err)
			}
		}

		now := time.Now()
		member.IsDeleted = true
		member.DeletedTime = &now
		member.DeletedBy = &actorID
		member.DeletedData = snapshot
		member.SpouseID = nil

		if err := repo.Update(member); err != nil {
			return fmt.Errorf("failed to delete member: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyFamily(family.ID, actorID, models.NotifMemberDeleted,
		"Member removed", fmt.Sprintf("%s was removed from the family tree", name))

	return nil
}

// RestoreMember undoes a soft delete. Parent pointers come back from the
// snapshot unconditionally; the spouse link and the children's parent
// pointers come back only where nothing new has taken their place.
func (s *MemberService) RestoreMember(familyID string, memberID uint64, actorID uint64) (*models.FamilyMember, error) {
	if _, err := s.requireAdmin(familyID, actorID, "Only admin can restore members"); err != nil {
		return nil, err
	}

	var member *models.FamilyMember
	err := s.memberRepo.WithTx(func(repo repository.MemberRepository) error {
		var err error
		member, err = repo.FindInFamily(familyID, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Member not found")
			}
			return fmt.Errorf("failed to find member: %w", err)
		}
		if !member.IsDeleted {
			return apperrors.Conflict("Member is not deleted")
		}

		snapshot := member.DeletedData

		member.IsDeleted = false
		member.DeletedTime = nil
		member.DeletedBy = nil
		member.DeletedData = nil

		if snapshot != nil {
			member.FatherID = snapshot.FatherID
			member.MotherID = snapshot.MotherID

			if snapshot.SpouseID != nil {
				spouse, err := repo.FindByID(*snapshot.SpouseID)
				if err == nil && !spouse.IsDeleted && spouse.SpouseID == nil {
					member.SpouseID = snapshot.SpouseID
					if err := repo.UpdateColumns(spouse.ID, map[string]interface{}{
						"spouse_id": member.ID,
					}); err != nil {
						return fmt.Errorf("failed to relink spouse: %w", err)
					}
				} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("failed to find spouse: %w", err)
				}
			}

			if err := restoreChildLinks(repo, snapshot.ChildrenAsFather, "father_id", member.ID); err != nil {
				return err
			}
			if err := restoreChildLinks(repo, snapshot.ChildrenAsMother, "mother_id", member.ID); err != nil {
				return err
			}
		}

		if err := repo.Update(member); err != nil {
			return fmt.Errorf("failed to restore member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// PermanentlyDeleteMember removes a soft-deleted member and its dependent
// rows for good. There is no snapshot and no way back.
func (s *MemberService) PermanentlyDeleteMember(familyID string, memberID uint64, actorID uint64) error {
	if _, err := s.requireAdmin(familyID, actorID, "Only admin can permanently delete members"); err != nil {
		return err
	}

	return s.memberRepo.WithTx(func(repo repository.MemberRepository) error {
		member, err := repo.FindInFamily(familyID, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Member not found")
			}
			return fmt.Errorf("failed to find member: %w", err)
		}
		if !member.IsDeleted {
			return apperrors.Validation("Member must be soft-deleted before permanent deletion")
		}

		if err := repo.DeleteAchievementsByMember(member.ID); err != nil {
			return fmt.Errorf("failed to delete achievements: %w", err)
		}
		if err := repo.HardDelete(member.ID); err != nil {
			return fmt.Errorf("failed to delete member: %w", err)
		}
		return nil
	})
}

// GetMemberByID assembles the member view: parents, spouse, children pooled
// from both parent sides, siblings sharing either parent, and the member's
// derived sibling order.
func (s *MemberService) GetMemberByID(familyID string, memberID uint64, actorID uint64) (*MemberDetail, error) {
	if err := s.requireMembership(familyID, actorID); err != nil {
		return nil, err
	}

	member, err := s.loadMember(s.memberRepo, familyID, memberID)
	if err != nil {
		return nil, err
	}

	detail := &MemberDetail{Member: *member}

	if member.FatherID != nil {
		if father, err := s.memberRepo.FindByID(*member.FatherID); err == nil {
			detail.Father = father
		}
	}
	if member.MotherID != nil {
		if mother, err := s.memberRepo.FindByID(*member.MotherID); err == nil {
			detail.Mother = mother
		}
	}
	if member.SpouseID != nil {
		if spouse, err := s.memberRepo.FindByID(*member.SpouseID); err == nil {
			detail.Spouse = spouse
		}
	}

	// children from both parent sides, deduplicated by id
	seen := make(map[uint64]bool)
	for _, column := range []string{"father_id", "mother_id"} {
		children, err := s.memberRepo.ListChildren(column, member.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list children: %w", err)
		}
		for _, child := range children {
			if !seen[child.ID] {
				seen[child.ID] = true
				detail.Children = append(detail.Children, child)
			}
		}
	}

	detail.Siblings, err = s.collectSiblings(member)
	if err != nil {
		return nil, err
	}

	detail.MyOrder = deriveChildOrder(member, detail.Siblings)

	return detail, nil
}

// GetFamilyMembers lists members of a family with filtering.
func (s *MemberService) GetFamilyMembers(actorID uint64, filter repository.MemberFilter) ([]models.FamilyMember, error) {
	if err := s.requireMembership(filter.FamilyID, actorID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// GetYearlyReport groups the family's achievements by year within an
// optional inclusive year range.
func (s *MemberService) GetYearlyReport(familyID string, actorID uint64, fromYear, toYear *int) ([]YearlyReportEntry, error) {
	if err := s.requireMembership(familyID, actorID); err != nil {
		return nil, err
	}

	achievements, err := s.memberRepo.ListFamilyAchievements(familyID, fromYear, toYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}

	byYear := make(map[int][]models.MemberAchievement)
	for _, a := range achievements {
		byYear[a.Year] = append(byYear[a.Year], a)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	report := make([]YearlyReportEntry, 0, len(years))
	for _, year := range years {
		report = append(report, YearlyReportEntry{
			Year:         year,
			Count:        len(byYear[year]),
			Achievements: byYear[year],
		})
	}
	return report, nil
}

// AchievementInput represents parameters to create or update an achievement.
type AchievementInput struct {
	Title       string
	Description string
	Year        int
}

// CreateAchievement adds an achievement to a member.
func (s *MemberService) CreateAchievement(familyID string, memberID uint64, actorID uint64, input AchievementInput) (*models.MemberAchievement, error) {
	if _, err := s.requireAdmin(familyID, actorID, "Only admin can manage achievements"); err != nil {
		return nil, err
	}
	if _, err := s.loadMember(s.memberRepo, familyID, memberID); err != nil {
		return nil, err
	}

	a := &models.MemberAchievement{
		MemberID:    memberID,
		Title:       input.Title,
		Description: input.Description,
		Year:        input.Year,
	}
	if err := s.memberRepo.CreateAchievement(a); err != nil {
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return a, nil
}

// ListAchievements lists a member's achievements within an optional year range.
func (s *MemberService) ListAchievements(familyID string, memberID uint64, actorID uint64, fromYear, toYear *int) ([]models.MemberAchievement, error) {
	if err := s.requireMembership(familyID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.loadMember(s.memberRepo, familyID, memberID); err != nil {
		return nil, err
	}

	achievements, err := s.memberRepo.ListAchievements(memberID, fromYear, toYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}

// UpdateAchievement updates one achievement.
func (s *MemberService) UpdateAchievement(familyID string, achievementID uint64, actorID uint64, input AchievementInput) (*models.MemberAchievement, error) {
	if _, err := s.requireAdmin(familyID, actorID, "Only admin can manage achievements"); err != nil {
		return nil, err
	}

	a, err := s.findFamilyAchievement(familyID, achievementID)
	if err != nil {
		return nil, err
	}

	a.Title = input.Title
	a.Description = input.Description
	a.Year = input.Year
	if err := s.memberRepo.UpdateAchievement(a); err != nil {
		return nil, fmt.Errorf("failed to update achievement: %w", err)
	}
	return a, nil
}

// DeleteAchievement deletes one achievement.
func (s *MemberService) DeleteAchievement(familyID string, achievementID uint64, actorID uint64) error {
	if _, err := s.requireAdmin(familyID, actorID, "Only admin can manage achievements"); err != nil {
		return err
	}

	a, err := s.findFamilyAchievement(familyID, achievementID)
	if err != nil {
		return err
	}

	if err := s.memberRepo.DeleteAchievement(a.ID); err != nil {
		return fmt.Errorf("failed to delete achievement: %w", err)
	}
	return nil
}

// --- helpers ---

func (s *MemberService) requireAdmin(familyID string, userID uint64, forbiddenMsg string) (*models.Family, error) {
	family, err := s.familyRepo.FindByID(familyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Family not found")
		}
		return nil, fmt.Errorf("failed to find family: %w", err)
	}
	if family.AdminID != userID {
		return nil, apperrors.Forbidden(forbiddenMsg)
	}
	return family, nil
}

func (s *MemberService) requireMembership(familyID string, userID uint64) error {
	if _, err := s.familyRepo.FindByID(familyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Family not found")
		}
		return fmt.Errorf("failed to find family: %w", err)
	}
	if _, err := s.familyRepo.FindMembership(familyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Forbidden("You are not a member of this family")
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	return nil
}

func (s *MemberService) loadMember(repo repository.MemberRepository, familyID string, id uint64) (*models.FamilyMember, error) {
	member, err := repo.FindInFamily(familyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Member not found")
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	if member.IsDeleted {
		return nil, apperrors.NotFound("Member not found")
	}
	return member, nil
}

// resolveParents validates parent gender and generation ordering and
// corrects swapped father/mother slots. With derive set it also fills a
// missing parent from the known parent's spouse.
func (s *MemberService) resolveParents(repo repository.MemberRepository, familyID string, generation int, fatherID, motherID *uint64, derive bool) (*uint64, *uint64, error) {
	var father, mother *models.FamilyMember
	var err error

	if fatherID != nil {
		father, err = s.loadParent(repo, familyID, *fatherID)
		if err != nil {
			return nil, nil, err
		}
	}
	if motherID != nil {
		mother, err = s.loadParent(repo, familyID, *motherID)
		if err != nil {
			return nil, nil, err
		}
	}

	if father != nil && mother != nil {
		if father.Generation != mother.Generation {
			return nil, nil, apperrors.Validation("Father and mother must be in the same generation")
		}
		// swap-correct slots when the genders indicate reversed arguments
		if father.Gender == models.GenderFemale || mother.Gender == models.GenderMale {
			father, mother = mother, father
		}
	}

	// derive the missing parent from the known parent's spouse
	if derive && father != nil && mother == nil && father.SpouseID != nil {
		spouse, err := repo.FindInFamily(familyID, *father.SpouseID)
		if err == nil && !spouse.IsDeleted {
			if father.Gender == models.GenderOther && spouse.Gender == models.GenderMale {
				father, mother = spouse, father
			} else {
				mother = spouse
			}
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("failed to find parent's spouse: %w", err)
		}
	} else if derive && mother != nil && father == nil && mother.SpouseID != nil {
		spouse, err := repo.FindInFamily(familyID, *mother.SpouseID)
		if err == nil && !spouse.IsDeleted {
			if mother.Gender == models.GenderOther && spouse.Gender == models.GenderFemale {
				father, mother = mother, spouse
			} else {
				father = spouse
			}
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("failed to find parent's spouse: %w", err)
		}
	}

	if father != nil {
		if father.Gender == models.GenderFemale {
			return nil, nil, apperrors.Validation("Father cannot be female")
		}
		if father.Generation >= generation {
			return nil, nil, apperrors.Validation("Father must be from an earlier generation")
		}
	}
	if mother != nil {
		if mother.Gender == models.GenderMale {
			return nil, nil, apperrors.Validation("Mother cannot be male")
		}
		if mother.Generation >= generation {
			return nil, nil, apperrors.Validation("Mother must be from an earlier generation")
		}
	}

	var outFather, outMother *uint64
	if father != nil {
		outFather = &father.ID
	}
	if mother != nil {
		outMother = &mother.ID
	}
	return outFather, outMother, nil
}

func (s *MemberService) loadParent(repo repository.MemberRepository, familyID string, id uint64) (*models.FamilyMember, error) {
	parent, err := repo.FindInFamily(familyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Parent member not found")
		}
		return nil, fmt.Errorf("failed to find parent: %w", err)
	}
	if parent.IsDeleted {
		return nil, apperrors.Validation("Parent member is deleted")
	}
	return parent, nil
}

func (s *MemberService) collectSiblings(member *models.FamilyMember) ([]models.FamilyMember, error) {
	seen := map[uint64]bool{member.ID: true}
	var siblings []models.FamilyMember

	parents := []struct {
		column string
		id     *uint64
	}{
		{"father_id", member.FatherID},
		{"mother_id", member.MotherID},
	}
	for _, parent := range parents {
		if parent.id == nil {
			continue
		}
		children, err := s.memberRepo.ListChildren(parent.column, *parent.id)
		if err != nil {
			return nil, fmt.Errorf("failed to list siblings: %w", err)
		}
		for _, child := range children {
			if !seen[child.ID] {
				seen[child.ID] = true
				siblings = append(siblings, child)
			}
		}
	}
	return siblings, nil
}

// deriveChildOrder prefers the explicit child order, otherwise ranks self
// plus siblings by birth date ascending, unknown birth dates last.
func deriveChildOrder(member *models.FamilyMember, siblings []models.FamilyMember) int {
	if member.ChildOrder != nil {
		return *member.ChildOrder
	}

	group := make([]models.FamilyMember, 0, len(siblings)+1)
	group = append(group, *member)
	group = append(group, siblings...)

	sort.SliceStable(group, func(i, j int) bool {
		bi, bj := group[i].BirthDate, group[j].BirthDate
		if bi == nil {
			return false
		}
		if bj == nil {
			return true
		}
		return bi.Before(*bj)
	})

	for i, m := range group {
		if m.ID == member.ID {
			return i + 1
		}
	}
	return 1
}

func validateSpouseGender(a, b models.Gender) error {
	if a == models.GenderOther || b == models.GenderOther {
		return nil
	}
	if a == b {
		return apperrors.Validation("Spouse must have a different gender")
	}
	return nil
}

func applyMemberUpdate(member *models.FamilyMember, input UpdateMemberInput) {
	if input.Name != nil {
		member.Name = *input.Name
	}
	if input.Gender != nil {
		member.Gender = *input.Gender
	}
	if input.Generation != nil {
		member.Generation = *input.Generation
	}
	if input.BirthDate != nil {
		member.BirthDate = input.BirthDate
	}
	if input.DeathDate != nil {
		member.DeathDate = input.DeathDate
	}
	if input.MarriageDate != nil {
		member.MarriageDate = input.MarriageDate
	}
	if input.Occupation != nil {
		member.Occupation = *input.Occupation
	}
	if input.Address != nil {
		member.Address = *input.Address
	}
	if input.Email != nil {
		member.Email = *input.Email
	}
	if input.MaritalStatus != nil {
		member.MaritalStatus = *input.MaritalStatus
	}
	if input.ChildOrder != nil {
		member.ChildOrder = input.ChildOrder
	}
	if input.FatherID != nil {
		member.FatherID = input.FatherID
	}
	if input.MotherID != nil {
		member.MotherID = input.MotherID
	}
	if input.SpouseID != nil {
		member.SpouseID = input.SpouseID
	}
	if input.ClearFather {
		member.FatherID = nil
	}
	if input.ClearMother {
		member.MotherID = nil
	}
	if input.ClearSpouse {
		member.SpouseID = nil
	}
}

func restoreChildLinks(repo repository.MemberRepository, childIDs []uint64, parentColumn string, parentID uint64) error {
	for _, childID := range childIDs {
		child, err := repo.FindByID(childID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return fmt.Errorf("failed to find child: %w", err)
		}
		if child.IsDeleted {
			continue
		}
		// never overwrite a parent link the child has since formed
		current := child.FatherID
		if parentColumn == "mother_id" {
			current = child.MotherID
		}
		if current != nil {
			continue
		}
		if err := repo.UpdateColumns(childID, map[string]interface{}{parentColumn: parentID}); err != nil {
			return fmt.Errorf("failed to restore child link: %w", err)
		}
	}
	return nil
}

func (s *MemberService) findFamilyAchievement(familyID string, achievementID uint64) (*models.MemberAchievement, error) {
	a, err := s.memberRepo.FindAchievement(achievementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Achievement not found")
		}
		return nil, fmt.Errorf("failed to find achievement: %w", err)
	}
	if _, err := s.loadMember(s.memberRepo, familyID, a.MemberID); err != nil {
		return nil, apperrors.NotFound("Achievement not found")
	}
	return a, nil
}

func (s *MemberService) notifyFamily(familyID string, actorID uint64, ntype models.NotificationType, title, message string) {
	if s.notifier == nil {
		return
	}
	actor := actorID
	err := s.notifier.NotifyFamilyMembers(familyID, &actor, CreateNotificationInput{
		SenderID: &actor,
		Type:     ntype,
		Title:    title,
		Message:  message,
	})
	if err != nil {
		log.Printf("[Members] notification fan-out failed for family %s: %v", familyID, err)
	}
}

func memberIDs(members []models.FamilyMember) []uint64 {
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids
}

func equalID(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
