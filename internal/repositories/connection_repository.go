package repositories

import (
	"fmt"

	"github.com/proconnect-app/backend/internal/models"
	"gorm.io/gorm"
)

// Sentinels distinguishing an absent edge from a store failure
var (
	ErrNoPendingRequest = fmt.Errorf("no pending connection request")
	ErrNotConnected     = fmt.Errorf("not connected")
)

// ConnectionRepository defines the interface for the mutual-connection edge
// table. An edge exists at most once per pair, in the direction it was
// requested; all queries treat it as undirected once accepted.
type ConnectionRepository interface {
	GetEdge(a, b uint) (*models.Connection, error)
	CreateRequest(requesterID, addresseeID uint) error
	AcceptRequest(requesterID, addresseeID uint) error
	DeletePending(requesterID, addresseeID uint) error
	DeleteAccepted(a, b uint) error
	IsConnected(a, b uint) (bool, error)
	HasPendingFrom(requesterID, addresseeID uint) (bool, error)
	GetConnections(userID uint) ([]models.User, error)
	GetConnectionIDs(userID uint) ([]uint, error)
	GetPendingRequesters(userID uint) ([]models.User, error)
	GetPendingAddressees(userID uint) ([]models.User, error)
	CountConnections(userID uint) (int64, error)
	CountPendingIncoming(userID uint) (int64, error)
	SuggestByOverlap(connectionIDs, excludedIDs []uint, limit int) ([]uint, error)
}

// PostgresConnectionRepository implements ConnectionRepository for PostgreSQL
type PostgresConnectionRepository struct {
	db *gorm.DB
}

// NewPostgresConnectionRepository creates a new PostgresConnectionRepository
func NewPostgresConnectionRepository(db *gorm.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

// GetEdge retrieves the edge between two users in either direction
func (r *PostgresConnectionRepository) GetEdge(a, b uint) (*models.Connection, error) {
	var conn models.Connection
	err := r.db.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		a, b, b, a,
	).First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// CreateRequest inserts a pending edge from requester to addressee
func (r *PostgresConnectionRepository) CreateRequest(requesterID, addresseeID uint) error {
	conn := &models.Connection{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      models.ConnectionPending,
	}
	return r.db.Create(conn).Error
}

// AcceptRequest flips a pending edge requester→addressee to accepted
func (r *PostgresConnectionRepository) AcceptRequest(requesterID, addresseeID uint) error {
	res := r.db.Model(&models.Connection{}).
		Where("requester_id = ? AND addressee_id = ? AND status = ?",
			requesterID, addresseeID, models.ConnectionPending).
		Update("status", models.ConnectionAccepted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoPendingRequest
	}
	return nil
}

// DeletePending removes a pending edge requester→addressee (reject or cancel)
func (r *PostgresConnectionRepository) DeletePending(requesterID, addresseeID uint) error {
	res := r.db.Where("requester_id = ? AND addressee_id = ? AND status = ?",
		requesterID, addresseeID, models.ConnectionPending).
		Delete(&models.Connection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoPendingRequest
	}
	return nil
}

// DeleteAccepted removes an accepted edge between two users, either direction
func (r *PostgresConnectionRepository) DeleteAccepted(a, b uint) error {
	res := r.db.Where(
		"((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)) AND status = ?",
		a, b, b, a, models.ConnectionAccepted,
	).Delete(&models.Connection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotConnected
	}
	return nil
}

// IsConnected reports whether an accepted edge exists between two users
func (r *PostgresConnectionRepository) IsConnected(a, b uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Connection{}).Where(
		"((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)) AND status = ?",
		a, b, b, a, models.ConnectionAccepted,
	).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasPendingFrom reports whether requester has a pending request to addressee
func (r *PostgresConnectionRepository) HasPendingFrom(requesterID, addresseeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Connection{}).
		Where("requester_id = ? AND addressee_id = ? AND status = ?",
			requesterID, addresseeID, models.ConnectionPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetConnections returns the users connected to userID
func (r *PostgresConnectionRepository) GetConnections(userID uint) ([]models.User, error) {
	ids, err := r.GetConnectionIDs(userID)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	err = r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// GetConnectionIDs returns the IDs of users connected to userID
func (r *PostgresConnectionRepository) GetConnectionIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Connection{}).
		Select("CASE WHEN requester_id = ? THEN addressee_id ELSE requester_id END", userID).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?",
			userID, userID, models.ConnectionAccepted).
		Scan(&ids).Error
	return ids, err
}

// GetPendingRequesters returns users with a pending request to userID (incoming)
func (r *PostgresConnectionRepository) GetPendingRequesters(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Model(&models.Connection{}).Select("requester_id").
			Where("addressee_id = ? AND status = ?", userID, models.ConnectionPending),
	).Find(&users).Error
	return users, err
}

// GetPendingAddressees returns users that userID has pending requests to (sent)
func (r *PostgresConnectionRepository) GetPendingAddressees(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id IN (?)",
		r.db.Model(&models.Connection{}).Select("addressee_id").
			Where("requester_id = ? AND status = ?", userID, models.ConnectionPending),
	).Find(&users).Error
	return users, err
}

// CountConnections counts accepted edges touching userID
func (r *PostgresConnectionRepository) CountConnections(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Connection{}).
		Where("(requester_id = ? OR addressee_id = ?) AND status = ?",
			userID, userID, models.ConnectionAccepted).
		Count(&count).Error
	return count, err
}

// CountPendingIncoming counts pending requests addressed to userID
func (r *PostgresConnectionRepository) CountPendingIncoming(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Connection{}).
		Where("addressee_id = ? AND status = ?", userID, models.ConnectionPending).
		Count(&count).Error
	return count, err
}

// SuggestByOverlap returns candidate user IDs that share accepted connections
// with the given connection set, excluding the given IDs, ordered by how many
// connections they share.
func (r *PostgresConnectionRepository) SuggestByOverlap(connectionIDs, excludedIDs []uint, limit int) ([]uint, error) {
	if len(connectionIDs) == 0 {
		return nil, nil
	}
	if len(excludedIDs) == 0 {
		excludedIDs = []uint{0}
	}
	var ids []uint
	err := r.db.Raw(`
		SELECT other_id FROM (
			SELECT CASE WHEN requester_id IN ? THEN addressee_id ELSE requester_id END AS other_id
			FROM connections
			WHERE status = ? AND (requester_id IN ? OR addressee_id IN ?)
		) t
		WHERE t.other_id NOT IN ?
		GROUP BY t.other_id
		ORDER BY COUNT(*) DESC
		LIMIT ?`,
		connectionIDs, models.ConnectionAccepted, connectionIDs, connectionIDs,
		excludedIDs, limit,
	).Scan(&ids).Error
	return ids, err
}
