package models

import "time"

// PostLike represents a like on a post, unique per (post, user)
type PostLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"postId" gorm:"index;uniqueIndex:idx_post_user_like"`
	UserID    uint      `json:"userId" gorm:"index;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentLike represents a like on a comment, unique per (comment, user)
type CommentLike struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CommentID uint      `json:"commentId" gorm:"index;uniqueIndex:idx_comment_user_like"`
	UserID    uint      `json:"userId" gorm:"index;uniqueIndex:idx_comment_user_like"`
	CreatedAt time.Time `json:"createdAt"`
}

// Share represents a share of a post, unique per (post, user). Unlike likes,
// a repeated share is rejected rather than toggled.
type Share struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"postId" gorm:"index;uniqueIndex:idx_post_user_share"`
	UserID    uint      `json:"userId" gorm:"index;uniqueIndex:idx_post_user_share"`
	CreatedAt time.Time `json:"createdAt"`
}
