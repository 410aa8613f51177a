package repository

import (
	"errors"

	"github.com/kinship-app/kinship/internal/models"
	"gorm.io/gorm"
)

// GormFamilyRepository is a GORM implementation of FamilyRepository
type GormFamilyRepository struct {
	db *gorm.DB
}

// NewFamilyRepository creates a new FamilyRepository
func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &GormFamilyRepository{db: db}
}

// Create creates a family and the admin's membership row in one transaction
func (r *GormFamilyRepository) Create(family *models.Family, membership *models.FamilyMembership) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(family).Error; err != nil {
			return err
		}
		membership.FamilyID = family.ID
		return tx.Create(membership).Error
	})
}

// FindByID finds a family by its 4-digit code
func (r *GormFamilyRepository) FindByID(id string) (*models.Family, error) {
	var family models.Family
	if err := r.db.Where("id = ?", id).First(&family).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

// ExistsByID reports whether a family code is already taken
func (r *GormFamilyRepository) ExistsByID(id string) (bool, error) {
	var family models.Family
	err := r.db.Where("id = ?", id).First(&family).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// ListAll lists every family
func (r *GormFamilyRepository) ListAll() ([]models.Family, error) {
	var families []models.Family
	if err := r.db.Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}

// Update updates a family
func (r *GormFamilyRepository) Update(family *models.Family) error {
	return r.db.Save(family).Error
}

// Delete deletes a family and its scoped child rows in one transaction
func (r *GormFamilyRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("family_id = ?", id).Delete(&models.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("family_id = ?", id).Delete(&models.Confession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("family_id = ?", id).Delete(&models.FamilyJoinRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("family_id = ?", id).Delete(&models.MemberRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("family_id = ?", id).Delete(&models.FamilyMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("family_id = ?", id).Delete(&models.FamilyMembership{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Family{}).Error
	})
}

// AddMembership adds a user to a family
func (r *GormFamilyRepository) AddMembership(m *models.FamilyMembership) error {
	return r.db.Create(m).Error
}

// RemoveMembership removes a user from a family
func (r *GormFamilyRepository) RemoveMembership(familyID string, userID uint64) error {
	return r.db.Where("family_id = ? AND user_id = ?", familyID, userID).
		Delete(&models.FamilyMembership{}).Error
}

// FindMembership finds a specific membership row
func (r *GormFamilyRepository) FindMembership(familyID string, userID uint64) (*models.FamilyMembership, error) {
	var m models.FamilyMembership
	if err := r.db.Where("family_id = ? AND user_id = ?", familyID, userID).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMemberships lists all members of a family
func (r *GormFamilyRepository) ListMemberships(familyID string) ([]models.FamilyMembership, error) {
	var memberships []models.FamilyMembership
	if err := r.db.Preload("User").
		Where("family_id = ?", familyID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// ListMembershipsByUser lists all families a user belongs to
func (r *GormFamilyRepository) ListMembershipsByUser(userID uint64) ([]models.FamilyMembership, error) {
	var memberships []models.FamilyMembership
	if err := r.db.Preload("Family").
		Where("user_id = ?", userID).
		Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

// CountMemberships counts the users of a family
func (r *GormFamilyRepository) CountMemberships(familyID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.FamilyMembership{}).
		Where("family_id = ?", familyID).
		Count(&count).Error
	return count, err
}

// CreateJoinRequest creates a join request
func (r *GormFamilyRepository) CreateJoinRequest(req *models.FamilyJoinRequest) error {
	return r.db.Create(req).Error
}

// FindJoinRequest finds the request of a user for a family, any status
func (r *GormFamilyRepository) FindJoinRequest(familyID string, userID uint64) (*models.FamilyJoinRequest, error) {
	var req models.FamilyJoinRequest
	if err := r.db.Where("family_id = ? AND user_id = ?", familyID, userID).
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindJoinRequestByID finds a join request by ID
func (r *GormFamilyRepository) FindJoinRequestByID(id uint64) (*models.FamilyJoinRequest, error) {
	var req models.FamilyJoinRequest
	if err := r.db.Preload("User").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListJoinRequests lists requests of a family filtered by status
func (r *GormFamilyRepository) ListJoinRequests(familyID string, status *models.RequestStatus) ([]models.FamilyJoinRequest, error) {
	query := r.db.Preload("User").Where("family_id = ?", familyID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var requests []models.FamilyJoinRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateJoinRequest updates a join request
func (r *GormFamilyRepository) UpdateJoinRequest(req *models.FamilyJoinRequest) error {
	return r.db.Save(req).Error
}

// DeleteJoinRequest deletes a join request row
func (r *GormFamilyRepository) DeleteJoinRequest(id uint64) error {
	return r.db.Delete(&models.FamilyJoinRequest{}, id).Error
}

// WithTx runs fn against family and member repositories bound to one
// shared transaction
func (r *GormFamilyRepository) WithTx(fn func(FamilyRepository, MemberRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormFamilyRepository{db: tx}, &GormMemberRepository{db: tx})
	})
}
