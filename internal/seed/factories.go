// Package seed provides database seeding utilities for development and
// testing.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"vibehunt/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildPost constructs a launch-style post without persisting it. The
// created_at is spread over the past maxDays for realistic range listings.
func (f *Factory) BuildPost(maxDays int) *models.Post {
	if maxDays <= 0 {
		maxDays = 45
	}
	hoursBack := f.rand.Intn(maxDays*24) + f.rand.Intn(60)

	name := gofakeit.AppName()
	post := &models.Post{
		Title:   name,
		Tagline: gofakeit.Sentence(6 + f.rand.Intn(6)),
		Maker:   "@" + gofakeit.Username(),
		URL:     fmt.Sprintf("https://%s.example.com", slugify(name)),
	}
	post.CreatedAt = time.Now().UTC().Add(-time.Duration(hoursBack) * time.Hour)
	post.UpdatedAt = post.CreatedAt
	return post
}

// CreatePost persists a randomly generated post.
func (f *Factory) CreatePost(maxDays int) (*models.Post, error) {
	post := f.BuildPost(maxDays)
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// BuildComment constructs a comment for the given post without persisting it.
func (f *Factory) BuildComment(post *models.Post) *models.Comment {
	comment := &models.Comment{
		PostID:   post.ID,
		Author:   gofakeit.Username(),
		Content:  gofakeit.HipsterSentence(4 + f.rand.Intn(10)),
		DeviceID: f.DeviceID(),
	}
	comment.CreatedAt = f.timeBetween(post.CreatedAt, time.Now().UTC())
	comment.UpdatedAt = comment.CreatedAt
	return comment
}

// DeviceID returns a synthetic opaque device token.
func (f *Factory) DeviceID() string {
	return "seed-" + gofakeit.UUID()
}

func (f *Factory) timeBetween(start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	span := end.Sub(start)
	return start.Add(time.Duration(f.rand.Int63n(int64(span))))
}

func slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
