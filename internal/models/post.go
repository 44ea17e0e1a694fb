// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a submitted product idea.
type Post struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title   string    `gorm:"not null" json:"title"`
	Tagline string    `gorm:"not null" json:"tagline"`
	Maker   string    `json:"maker,omitempty"`
	URL     string    `json:"url,omitempty"`
	// VotesCount is a cached counter; the vote toggle is the only code path
	// that mutates it.
	VotesCount int `gorm:"not null;default:0" json:"votes_count"`
	// CommentsCount is a cached counter; the comment append is the only code
	// path that mutates it.
	CommentsCount int       `gorm:"not null;default:0" json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns a store-generated id before insert.
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
