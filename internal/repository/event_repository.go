package repository

import (
	"time"

	"github.com/kinship-app/kinship/internal/models"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates an event
func (r *GormEventRepository) Create(e *models.Event) error {
	return r.db.Create(e).Error
}

// FindByID finds an event by ID
func (r *GormEventRepository) FindByID(id uint64) (*models.Event, error) {
	var e models.Event
	if err := r.db.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByFamily lists events of a family ordered by event date
func (r *GormEventRepository) ListByFamily(familyID string) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.Where("family_id = ?", familyID).
		Order("event_date ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListInWindow lists events of a family with event date in [from, to)
func (r *GormEventRepository) ListInWindow(familyID string, from, to time.Time) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.Where("family_id = ? AND event_date >= ? AND event_date < ?", familyID, from, to).
		Order("event_date ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Update updates an event
func (r *GormEventRepository) Update(e *models.Event) error {
	return r.db.Save(e).Error
}

// Delete soft deletes an event
func (r *GormEventRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Event{}, id).Error
}
