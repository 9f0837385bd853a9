package repositories

import (
	"github.com/proconnect-app/backend/internal/models"
	"gorm.io/gorm"
)

// ShareRepository defines the interface for share operations
type ShareRepository interface {
	HasShared(postID string, userID uint) (bool, error)
	CreateShare(share *models.Share) error
	CountByPostID(postID string) (int64, error)
	DeleteByPostID(postID string) error
}

// PostgresShareRepository implements ShareRepository for PostgreSQL
type PostgresShareRepository struct {
	db *gorm.DB
}

// NewPostgresShareRepository creates a new PostgresShareRepository
func NewPostgresShareRepository(db *gorm.DB) *PostgresShareRepository {
	return &PostgresShareRepository{db: db}
}

func (r *PostgresShareRepository) HasShared(postID string, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Share{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresShareRepository) CreateShare(share *models.Share) error {
	return r.db.Create(share).Error
}

func (r *PostgresShareRepository) CountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Share{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (r *PostgresShareRepository) DeleteByPostID(postID string) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.Share{}).Error
}
