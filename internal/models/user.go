package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultDisplayName is shown for users who never set a display name.
const DefaultDisplayName = "Anonymous"

// User holds the profile record owned by a session identity.
type User struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns the user ID when the caller did not supply one.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Name returns the display name, falling back to DefaultDisplayName.
func (u *User) Name() string {
	if u.DisplayName == "" {
		return DefaultDisplayName
	}
	return u.DisplayName
}
