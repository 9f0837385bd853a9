package models

import "time"

// Connection statuses
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
)

// Connection is the single source-of-truth edge for the two-phase mutual
// handshake. One row exists per pair: created as pending(requester→addressee),
// flipped to accepted on acceptance, deleted on reject/cancel/removal. Both
// sides of the relationship read the same row, so there is no dual-write
// inconsistency window.
type Connection struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RequesterID uint      `json:"requesterId" gorm:"index;uniqueIndex:idx_connection_pair"`
	AddresseeID uint      `json:"addresseeId" gorm:"index;uniqueIndex:idx_connection_pair"`
	Status      string    `json:"status" gorm:"size:20;default:'pending'"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
