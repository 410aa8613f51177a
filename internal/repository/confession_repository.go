package repository

import (
	"time"

	"github.com/kinship-app/kinship/internal/database"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/utils"
	"gorm.io/gorm"
)

// GormConfessionRepository is a GORM implementation of ConfessionRepository
type GormConfessionRepository struct {
	db *gorm.DB
}

// NewConfessionRepository creates a new ConfessionRepository
func NewConfessionRepository(db *gorm.DB) ConfessionRepository {
	return &GormConfessionRepository{db: db}
}

// Create creates a confession
func (r *GormConfessionRepository) Create(cf *models.Confession) error {
	return r.db.Create(cf).Error
}

// FindByID finds a confession by ID
func (r *GormConfessionRepository) FindByID(id uint64) (*models.Confession, error) {
	var cf models.Confession
	if err := r.db.First(&cf, id).Error; err != nil {
		return nil, err
	}
	return &cf, nil
}

// ListByFamily lists confessions of a family, newest first, paginated
func (r *GormConfessionRepository) ListByFamily(familyID string, params utils.PaginationParams) ([]models.Confession, int64, error) {
	var total int64
	if err := r.db.Model(&models.Confession{}).
		Where("family_id = ?", familyID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var confessions []models.Confession
	if err := r.db.Preload("Author").
		Where("family_id = ?", familyID).
		Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&confessions).Error; err != nil {
		return nil, 0, err
	}
	return confessions, total, nil
}

// CountByAuthorSince counts an author's confessions in a family since t
func (r *GormConfessionRepository) CountByAuthorSince(familyID string, authorID uint64, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Confession{}).
		Where("family_id = ? AND author_id = ? AND created_at >= ?", familyID, authorID, since).
		Count(&count).Error
	return count, err
}

// Delete soft deletes a confession
func (r *GormConfessionRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Confession{}, id).Error
}
