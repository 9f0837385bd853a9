package models

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post visibility levels
const (
	VisibilityPublic      = "public"
	VisibilityConnections = "connections"
	VisibilityPrivate     = "private"
)

// Post represents a feed post stored in MongoDB. Like/comment/share records
// live in their own PostgreSQL tables keyed by the post's hex ID; the counts
// exposed over the API are computed from those tables, never stored here.
type Post struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID    uint               `json:"authorId" bson:"author_id"`
	Content     string             `json:"content" bson:"content"`
	Media       []string           `json:"media,omitempty" bson:"media,omitempty"`
	Hashtags    []string           `json:"hashtags" bson:"hashtags"`
	Mentions    []string           `json:"mentions,omitempty" bson:"mentions,omitempty"`
	Location    string             `json:"location,omitempty" bson:"location,omitempty"`
	Visibility  string             `json:"visibility" bson:"visibility"`
	IsEdited    bool               `json:"isEdited" bson:"is_edited"`
	EditHistory []EditEntry        `json:"editHistory,omitempty" bson:"edit_history,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updated_at"`
}

// EditEntry preserves the pre-edit content of a post
type EditEntry struct {
	Content  string    `json:"content" bson:"content"`
	EditedAt time.Time `json:"editedAt" bson:"edited_at"`
}

var (
	hashtagPattern = regexp.MustCompile(`#\w+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
)

// ExtractHashtags scans content for #word tokens, case-folds and de-duplicates
// them preserving first-occurrence order.
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllString(content, -1)
	if matches == nil {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m)
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// ExtractMentions scans content for @word tokens, de-duplicated in order.
// Mention tokens are kept as written; resolving them to users is left to
// the caller.
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllString(content, -1)
	if matches == nil {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	mentions := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			mentions = append(mentions, m)
		}
	}
	return mentions
}

// RefreshDerived recomputes hashtags and mentions from the current content.
// Must be called whenever content changes.
func (p *Post) RefreshDerived() {
	p.Hashtags = ExtractHashtags(p.Content)
	p.Mentions = ExtractMentions(p.Content)
}

// RecordEdit appends the pre-edit content to history and overwrites it,
// marking the post edited and recomputing derived fields.
func (p *Post) RecordEdit(newContent string, at time.Time) {
	p.EditHistory = append(p.EditHistory, EditEntry{Content: p.Content, EditedAt: at})
	p.Content = newContent
	p.IsEdited = true
	p.RefreshDerived()
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content    string   `json:"content" validate:"required,min=1,max=2000"`
	Media      []string `json:"media,omitempty" validate:"omitempty,dive,url"`
	Visibility string   `json:"visibility,omitempty" validate:"omitempty,oneof=public connections private"`
	Location   string   `json:"location,omitempty" validate:"omitempty,max=100"`
}

// UpdatePostRequest defines the request body for editing an existing post
type UpdatePostRequest struct {
	Content    string    `json:"content" validate:"required,min=1,max=2000"`
	Media      *[]string `json:"media,omitempty" validate:"omitempty,dive,url"`
	Visibility *string   `json:"visibility,omitempty" validate:"omitempty,oneof=public connections private"`
	Location   *string   `json:"location,omitempty" validate:"omitempty,max=100"`
}
