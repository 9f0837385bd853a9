package repositories

import (
	"fmt"
	"time"

	"github.com/proconnect-app/backend/internal/models"
	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned when a row does not exist or belongs to
// another recipient.
var ErrNotificationNotFound = fmt.Errorf("notification not found")

// NotificationRepository defines the interface for the notification log.
// The log is append-only: rows are only ever flagged read or soft-deleted,
// except for the retention sweep which hard-deletes old read rows.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(id, recipientID uint) error
	MarkAllAsRead(recipientID uint) error
	SoftDelete(id, recipientID uint) error
	SoftDeleteAll(recipientID uint) error
	DeleteOldRead(days int) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a NotificationRepository backed by PostgreSQL
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// GetByRecipientID returns the recipient's non-deleted notifications, newest first
func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	var total int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_deleted = false", recipientID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	offset := (page - 1) * limit
	err = r.db.Where("recipient_id = ? AND is_deleted = false", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false AND is_deleted = false", recipientID).
		Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(id, recipientID uint) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Update("is_read", true).Error
}

func (r *postgresNotificationRepository) SoftDelete(id, recipientID uint) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) SoftDeleteAll(recipientID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("recipient_id = ?", recipientID).
		Update("is_deleted", true).Error
}

// DeleteOldRead removes read notifications older than the cutoff. Unread
// notifications are retained regardless of age.
func (r *postgresNotificationRepository) DeleteOldRead(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	res := r.db.Where("created_at < ? AND is_read = true", cutoff).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
