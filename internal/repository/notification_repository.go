package repository

import (
	"time"

	"github.com/kinship-app/kinship/internal/database"
	"github.com/kinship-app/kinship/internal/models"
	"github.com/kinship-app/kinship/internal/utils"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create creates a notification
func (r *GormNotificationRepository) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

// CreateBatch creates many notifications at once
func (r *GormNotificationRepository) CreateBatch(ns []models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.Create(&ns).Error
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(id uint64) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// ListByUser lists a user's notifications, newest first, paginated
func (r *GormNotificationRepository) ListByUser(userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error) {
	var total int64
	if err := r.db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	if err := r.db.Preload("Sender").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks one notification as read
func (r *GormNotificationRepository) MarkRead(id uint64) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

// MarkAllRead marks all of a user's notifications as read
func (r *GormNotificationRepository) MarkAllRead(userID uint64) error {
	now := time.Now()
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

// ExistsForEntityToday reports whether a notification of the given type
// referencing the entity was already created today. Reminder rows embed
// a {"ref":"<type>:<id>"} token in their data payload for exactly this check.
func (r *GormNotificationRepository) ExistsForEntityToday(ntype models.NotificationType, refType string, refID uint64) (bool, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	pattern := "%" + `"ref":"` + models.ReminderRef(refType, refID) + `"` + "%"

	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("type = ? AND created_at >= ? AND data LIKE ?", ntype, startOfDay, pattern).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
