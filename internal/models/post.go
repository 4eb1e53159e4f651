// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a single published update. AuthorID and CreatedAt are
// immutable after creation; AuthorName is a snapshot of the author's display
// name at creation time and is never re-synced with later renames.
type Post struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	AuthorID   string `gorm:"not null;index;size:36" json:"author_id"`
	AuthorName string `gorm:"not null" json:"author_name"`
	Text       string `gorm:"type:text;not null" json:"text"`
	PhotoURL   string `json:"photo_url,omitempty"`
	// Editable is not persisted; computed per viewer at query time
	Editable  bool      `gorm:"-" json:"editable"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the store-side document ID.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
