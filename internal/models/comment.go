package models

import "time"

// Comment represents a comment on a post (PostgreSQL, keyed by the Mongo post ID)
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"postId" gorm:"index"`
	UserID    uint      `json:"userId" gorm:"index"`
	Content   string    `json:"content" gorm:"size:500"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Reply represents a reply nested one level under a comment
type Reply struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID uint      `json:"commentId" gorm:"index"`
	PostID    string    `json:"postId" gorm:"index"`
	UserID    uint      `json:"userId" gorm:"index"`
	Content   string    `json:"content" gorm:"size:300"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// UpdateCommentRequest defines the request body for editing a comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// CreateReplyRequest defines the request body for replying to a comment
type CreateReplyRequest struct {
	Content string `json:"content" validate:"required,min=1,max=300"`
}
