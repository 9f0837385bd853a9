package models

import "time"

// Notification types
const (
	NotificationLike               = "like"
	NotificationComment            = "comment"
	NotificationReply              = "reply"
	NotificationShare              = "share"
	NotificationFollow             = "follow"
	NotificationConnectionRequest  = "connection_request"
	NotificationConnectionAccepted = "connection_accepted"
	NotificationMention            = "mention"
	NotificationPostShared         = "post_shared"
	NotificationProfileView        = "profile_view"
)

// Notification is an append-only event tied to (recipient, sender, type).
// Rows are never mutated except for the read and soft-delete flags; the
// optional post reference may dangle after the post is deleted.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipientId" gorm:"index"`
	SenderID    uint      `json:"senderId" gorm:"index"`
	Type        string    `json:"type" gorm:"size:30;index"`
	PostID      string    `json:"postId,omitempty"`
	CommentID   uint      `json:"commentId,omitempty"`
	Content     string    `json:"content" gorm:"size:200"`
	IsRead      bool      `json:"isRead" gorm:"default:false;index"`
	IsDeleted   bool      `json:"isDeleted" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
}
