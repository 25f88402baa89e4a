package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"

	defaultUsername = "user"
)

type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(150);index" json:"email"`
	Username  string    `gorm:"type:varchar(100);not null" json:"username"`
	Role      Role      `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	AvatarURL *string   `gorm:"type:varchar(500)" json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSummary is the part of a User that is embedded in image listings
type UserSummary struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func (UserSummary) TableName() string {
	return "users"
}

// UsernameFromEmail returns the local part of the email, e.g. "jane" for "jane@example.com"
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local = strings.TrimSpace(local); local == "" {
		return defaultUsername
	}
	return local
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Username == "" {
		u.Username = UsernameFromEmail(u.Email)
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) HasRoles(required []Role) bool {
	for _, role := range required {
		// Admins can do everything
		if role != u.Role && u.Role != RoleAdmin {
			return false
		}
	}
	return true
}

// CanModify reports whether the user may change a resource owned by ownerID
func (u *User) CanModify(ownerID string) bool {
	if u == nil || u.ID == "" {
		return false
	}
	return u.ID == ownerID || u.IsAdmin()
}
