package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User represents a registered account with its professional profile (PostgreSQL)
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	FirstName      string    `json:"firstName" gorm:"size:50"`
	LastName       string    `json:"lastName" gorm:"size:50"`
	Email          string    `json:"email" gorm:"uniqueIndex"` // stored lowercased
	Password       string    `json:"-"`                        // bcrypt hash, never serialized
	ProfilePicture string    `json:"profilePicture"`
	CoverPhoto     string    `json:"coverPhoto"`
	Bio            string    `json:"bio" gorm:"size:500"`
	Title          string    `json:"title" gorm:"size:100"`
	Company        string    `json:"company" gorm:"size:100"`
	Location       string    `json:"location" gorm:"size:100"`
	Website        string    `json:"website"`
	Skills         []string  `json:"skills" gorm:"serializer:json"`
	Interests      []string  `json:"interests" gorm:"serializer:json"`
	IsVerified     bool      `json:"isVerified" gorm:"default:false"`
	IsActive       bool      `json:"isActive" gorm:"default:true"`
	LastActive     time.Time `json:"lastActive"`

	// Reset tokens are stored hashed and expire after a short window.
	ResetPasswordToken  string    `json:"-" gorm:"index"`
	ResetPasswordExpire time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// FullName returns the display name derived from first and last name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// PublicProfile is the externally visible projection of a user. It excludes
// credentials and reset tokens and carries counts derived from the edge tables.
type PublicProfile struct {
	ID              uint      `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	ProfilePicture  string    `json:"profilePicture"`
	CoverPhoto      string    `json:"coverPhoto"`
	Bio             string    `json:"bio"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Website         string    `json:"website"`
	Skills          []string  `json:"skills"`
	Interests       []string  `json:"interests"`
	IsVerified      bool      `json:"isVerified"`
	FollowerCount   int64     `json:"followerCount"`
	FollowingCount  int64     `json:"followingCount"`
	ConnectionCount int64     `json:"connectionCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToPublicProfile builds the public projection with the supplied derived counts.
func (u *User) ToPublicProfile(followers, following, connections int64) PublicProfile {
	return PublicProfile{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullName:        u.FullName(),
		Email:           u.Email,
		ProfilePicture:  u.ProfilePicture,
		CoverPhoto:      u.CoverPhoto,
		Bio:             u.Bio,
		Title:           u.Title,
		Company:         u.Company,
		Location:        u.Location,
		Website:         u.Website,
		Skills:          u.Skills,
		Interests:       u.Interests,
		IsVerified:      u.IsVerified,
		FollowerCount:   followers,
		FollowingCount:  following,
		ConnectionCount: connections,
		CreatedAt:       u.CreatedAt,
	}
}

// UserCompact is the short form embedded in lists, posts and notifications.
type UserCompact struct {
	ID             uint   `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profilePicture"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location,omitempty"`
}

// ToCompact builds the short projection of a user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		Title:          u.Title,
		Company:        u.Company,
		Location:       u.Location,
	}
}

// RegisterRequest defines the request body for account registration
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for authentication
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the whitelist of mutable profile fields
type UpdateProfileRequest struct {
	FirstName *string  `json:"firstName,omitempty" validate:"omitempty,min=2,max=50"`
	LastName  *string  `json:"lastName,omitempty" validate:"omitempty,min=2,max=50"`
	Bio       *string  `json:"bio,omitempty" validate:"omitempty,max=500"`
	Title     *string  `json:"title,omitempty" validate:"omitempty,max=100"`
	Company   *string  `json:"company,omitempty" validate:"omitempty,max=100"`
	Location  *string  `json:"location,omitempty" validate:"omitempty,max=100"`
	Website   *string  `json:"website,omitempty"`
	Skills    []string `json:"skills,omitempty"`
	Interests []string `json:"interests,omitempty"`
}

// ChangePasswordRequest defines the request body for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// ForgotPasswordRequest defines the request body for requesting a reset token
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the request body for consuming a reset token
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateProfilePictureRequest records the URL returned by the storage provider
type UpdateProfilePictureRequest struct {
	ProfilePicture string `json:"profilePicture" validate:"required,url"`
}

// UpdateCoverPhotoRequest records the URL returned by the storage provider
type UpdateCoverPhotoRequest struct {
	CoverPhoto string `json:"coverPhoto" validate:"required,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
