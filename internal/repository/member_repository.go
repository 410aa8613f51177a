package repository

import (
	"strings"

	"github.com/kinship-app/kinship/internal/models"
	"gorm.io/gorm"
)

// GormMemberRepository is a GORM implementation of MemberRepository
type GormMemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &GormMemberRepository{db: db}
}

// Create creates a new family member
func (r *GormMemberRepository) Create(member *models.FamilyMember) error {
	return r.db.Create(member).Error
}

// FindByID finds a member by ID regardless of family
func (r *GormMemberRepository) FindByID(id uint64) (*models.FamilyMember, error) {
	var member models.FamilyMember
	if err := r.db.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindInFamily finds a member by ID scoped to a family
func (r *GormMemberRepository) FindInFamily(familyID string, id uint64) (*models.FamilyMember, error) {
	var member models.FamilyMember
	if err := r.db.Where("family_id = ? AND id = ?", familyID, id).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// List retrieves members of a family with filtering, ordered by
// generation ascending then birth date ascending
func (r *GormMemberRepository) List(filter MemberFilter) ([]models.FamilyMember, error) {
	query := r.db.Where("family_id = ?", filter.FamilyID)

	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if filter.Alive != nil {
		if *filter.Alive {
			query = query.Where("death_date IS NULL")
		} else {
			query = query.Where("death_date IS NOT NULL")
		}
	}
	if filter.Generation != nil {
		query = query.Where("generation = ?", *filter.Generation)
	}
	if filter.Gender != nil {
		query = query.Where("gender = ?", *filter.Gender)
	}
	if filter.NameContains != "" {
		pattern := "%" + strings.ToLower(filter.NameContains) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}

	var members []models.FamilyMember
	if err := query.Order("generation ASC, birth_date ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Update saves all fields of a member, including cleared pointers
func (r *GormMemberRepository) Update(member *models.FamilyMember) error {
	return r.db.Save(member).Error
}

// UpdateColumns applies a partial column update to one member
func (r *GormMemberRepository) UpdateColumns(id uint64, values map[string]interface{}) error {
	return r.db.Model(&models.FamilyMember{}).Where("id = ?", id).
		Updates(values).Error
}

// HardDelete removes the member row permanently
func (r *GormMemberRepository) HardDelete(id uint64) error {
	return r.db.Unscoped().Delete(&models.FamilyMember{}, id).Error
}

// ListChildren lists non-deleted members whose parent column equals parentID
func (r *GormMemberRepository) ListChildren(parentColumn string, parentID uint64) ([]models.FamilyMember, error) {
	// parentColumn is always "father_id" or "mother_id", never user input
	var children []models.FamilyMember
	if err := r.db.Where(parentColumn+" = ? AND is_deleted = ?", parentID, false).
		Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

// FindByLinkedUser finds the member in a family linked to a user
func (r *GormMemberRepository) FindByLinkedUser(familyID string, userID uint64) (*models.FamilyMember, error) {
	var member models.FamilyMember
	if err := r.db.Where("family_id = ? AND linked_user_id = ? AND is_deleted = ?", familyID, userID, false).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListUnlinked lists non-deleted members of a family with no linked user
func (r *GormMemberRepository) ListUnlinked(familyID string) ([]models.FamilyMember, error) {
	var members []models.FamilyMember
	if err := r.db.Where("family_id = ? AND linked_user_id IS NULL AND is_deleted = ?", familyID, false).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// CreateAchievement creates an achievement for a member
func (r *GormMemberRepository) CreateAchievement(a *models.MemberAchievement) error {
	return r.db.Create(a).Error
}

// FindAchievement finds an achievement by ID
func (r *GormMemberRepository) FindAchievement(id uint64) (*models.MemberAchievement, error) {
	var a models.MemberAchievement
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAchievements lists achievements of a member bounded by an optional year range
func (r *GormMemberRepository) ListAchievements(memberID uint64, fromYear, toYear *int) ([]models.MemberAchievement, error) {
	query := r.db.Where("member_id = ?", memberID)
	if fromYear != nil {
		query = query.Where("year >= ?", *fromYear)
	}
	if toYear != nil {
		query = query.Where("year <= ?", *toYear)
	}

	var achievements []models.MemberAchievement
	if err := query.Order("year DESC").Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

// ListFamilyAchievements lists achievements across all members of a family
func (r *GormMemberRepository) ListFamilyAchievements(familyID string, fromYear, toYear *int) ([]models.MemberAchievement, error) {
	query := r.db.Joins("JOIN family_members ON family_members.id = member_achievements.member_id").
		Where("family_members.family_id = ? AND family_members.is_deleted = ?", familyID, false)
	if fromYear != nil {
		query = query.Where("member_achievements.year >= ?", *fromYear)
	}
	if toYear != nil {
		query = query.Where("member_achievements.year <= ?", *toYear)
	}

	var achievements []models.MemberAchievement
	if err := query.Order("member_achievements.year ASC").
		Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

// UpdateAchievement updates an achievement
func (r *GormMemberRepository) UpdateAchievement(a *models.MemberAchievement) error {
	return r.db.Save(a).Error
}

// DeleteAchievement deletes one achievement
func (r *GormMemberRepository) DeleteAchievement(id uint64) error {
	return r.db.Delete(&models.MemberAchievement{}, id).Error
}

// DeleteAchievementsByMember purges all achievements of a member
func (r *GormMemberRepository) DeleteAchievementsByMember(memberID uint64) error {
	return r.db.Unscoped().Where("member_id = ?", memberID).
		Delete(&models.MemberAchievement{}).Error
}

// WithTx runs fn against a repository bound to a single transaction
func (r *GormMemberRepository) WithTx(fn func(MemberRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormMemberRepository{db: tx})
	})
}
