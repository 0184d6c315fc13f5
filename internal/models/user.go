package models

import (
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// UnknownUserName is shown wherever a referenced user cannot be resolved.
const UnknownUserName = "Unknown User"

/** --------------------ENTITIES-------------------- */
// User represents an account. Rows are soft deleted only.
type User struct {
	gorm.Model
	Name        string `gorm:"size:100;not null" json:"name"`
	Email       string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string `gorm:"size:200;not null" json:"-"`
	Description string `gorm:"size:500" json:"description"`
	Location    string `gorm:"size:255" json:"location"`
	Picture     string `gorm:"size:255" json:"picture"`
	IsSuperUser bool   `gorm:"not null;default:false" json:"is_super_user"`
}

/** -------------------- DTOs -------------------- */
// Request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest carries the text fields of a profile update. The
// picture arrives as a multipart file next to them.
type UpdateProfileRequest struct {
	Name        string `form:"name" binding:"required,max=100"`
	Description string `form:"description" binding:"max=500"`
	Location    string `form:"location" binding:"max=255"`
}

// Response
type UserSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type UserProfile struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Picture     string    `json:"picture"`
	IsSuperUser bool      `json:"is_super_user"`
	CreatedAt   time.Time `json:"created_at"`
}

// LoginResponse represents the response for a successful login
// swagger:model
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// NewUserSummary maps a user to its public card. A nil user renders as
// UnknownUserName.
func NewUserSummary(u *User) UserSummary {
	if u == nil {
		return UserSummary{Name: UnknownUserName}
	}
	return UserSummary{ID: u.ID, Name: u.Name, Picture: u.Picture}
}

func NewUserProfile(u *User) UserProfile {
	var p UserProfile
	_ = copier.Copy(&p, u)
	return p
}
