package repositories

import (
	"time"

	"github.com/proconnect-app/backend/internal/models"
	"gorm.io/gorm"
)

// SearchUsersParams narrows a user search; zero-value fields are ignored
type SearchUsersParams struct {
	Query    string
	Skills   []string
	Location string
	Company  string
	Page     int
	Limit    int
}

// ConnectionFilter narrows a fixed user set by profile attributes;
// zero-value fields are ignored. Skills match when any one overlaps.
type ConnectionFilter struct {
	Company  string
	Location string
	Skills   []string
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	GetUserByResetToken(tokenHash string, now time.Time) (*models.User, error)
	UpdateUser(user *models.User) error
	SearchUsers(params SearchUsersParams) ([]models.User, int64, error)
	FilterUsersByIDs(ids []uint, filter ConnectionFilter) ([]models.User, error)
	SuggestUsers(excludedIDs []uint, limit int) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by their (lowercased) email
func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs retrieves the users whose IDs are in the given set
func (r *PostgresUserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserByResetToken retrieves a user by a hashed reset token that has not expired
func (r *PostgresUserRepository) GetUserByResetToken(tokenHash string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.Where("reset_password_token = ? AND reset_password_expire > ?", tokenHash, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an existing user in PostgreSQL
func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// SearchUsers searches active users by name/title/company text, skills,
// location and company filters, paginated.
func (r *PostgresUserRepository) SearchUsers(params SearchUsersParams) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{}).Where("is_active = ?", true)

	if params.Query != "" {
		like := "%" + params.Query + "%"
		q = q.Where(
			"LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?) OR LOWER(title) LIKE LOWER(?) OR LOWER(company) LIKE LOWER(?)",
			like, like, like, like,
		)
	}
	if params.Location != "" {
		q = q.Where("LOWER(location) LIKE LOWER(?)", "%"+params.Location+"%")
	}
	if params.Company != "" {
		q = q.Where("LOWER(company) LIKE LOWER(?)", "%"+params.Company+"%")
	}
	// Skills are a JSON-serialized column; match each skill as a substring.
	for _, skill := range params.Skills {
		q = q.Where("LOWER(skills) LIKE LOWER(?)", "%"+skill+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	offset := (params.Page - 1) * params.Limit
	if err := q.Offset(offset).Limit(params.Limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// FilterUsersByIDs returns the active users within the given ID set matching
// the filter: company and location as case-insensitive substrings, skills when
// any requested skill is present.
func (r *PostgresUserRepository) FilterUsersByIDs(ids []uint, filter ConnectionFilter) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	q := r.db.Where("id IN ? AND is_active = ?", ids, true)
	if filter.Company != "" {
		q = q.Where("LOWER(company) LIKE LOWER(?)", "%"+filter.Company+"%")
	}
	if filter.Location != "" {
		q = q.Where("LOWER(location) LIKE LOWER(?)", "%"+filter.Location+"%")
	}
	if len(filter.Skills) > 0 {
		skillsQ := r.db.Where("LOWER(skills) LIKE LOWER(?)", "%"+filter.Skills[0]+"%")
		for _, skill := range filter.Skills[1:] {
			skillsQ = skillsQ.Or("LOWER(skills) LIKE LOWER(?)", "%"+skill+"%")
		}
		q = q.Where(skillsQ)
	}

	err := q.Find(&users).Error
	return users, err
}

// SuggestUsers returns active users outside the excluded set, newest first
func (r *PostgresUserRepository) SuggestUsers(excludedIDs []uint, limit int) ([]models.User, error) {
	var users []models.User
	q := r.db.Where("is_active = ?", true)
	if len(excludedIDs) > 0 {
		q = q.Where("id NOT IN ?", excludedIDs)
	}
	err := q.Order("created_at DESC").Limit(limit).Find(&users).Error
	return users, err
}
