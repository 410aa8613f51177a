package repository

import (
	"github.com/kinship-app/kinship/internal/models"
	"gorm.io/gorm"
)

// GormMemberRequestRepository is a GORM implementation of MemberRequestRepository
type GormMemberRequestRepository struct {
	db *gorm.DB
}

// NewMemberRequestRepository creates a new MemberRequestRepository
func NewMemberRequestRepository(db *gorm.DB) MemberRequestRepository {
	return &GormMemberRequestRepository{db: db}
}

// Create creates a member request
func (r *GormMemberRequestRepository) Create(req *models.MemberRequest) error {
	return r.db.Create(req).Error
}

// FindByID finds a member request by ID
func (r *GormMemberRequestRepository) FindByID(id uint64) (*models.MemberRequest, error) {
	var req models.MemberRequest
	if err := r.db.Preload("Requester").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByFamily lists requests of a family filtered by status
func (r *GormMemberRequestRepository) ListByFamily(familyID string, status *models.RequestStatus) ([]models.MemberRequest, error) {
	query := r.db.Preload("Requester").Where("family_id = ?", familyID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var requests []models.MemberRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Update updates a member request
func (r *GormMemberRequestRepository) Update(req *models.MemberRequest) error {
	return r.db.Save(req).Error
}

// WithTx runs fn against request, member and family repositories bound
// to one shared transaction
func (r *GormMemberRequestRepository) WithTx(fn func(MemberRequestRepository, MemberRepository, FamilyRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormMemberRequestRepository{db: tx}, &GormMemberRepository{db: tx}, &GormFamilyRepository{db: tx})
	})
}
