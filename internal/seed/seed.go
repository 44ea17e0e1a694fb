package seed

import (
	"fmt"
	"log"
	"os"
	"time"

	"vibehunt/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// DemoDeviceID is the device used for the demo votes created on first boot,
// so the toggle flow can be exercised immediately against seeded data.
const DemoDeviceID = "demo-device"

// Options configuration for the seeder
type Options struct {
	// ExtraPosts adds randomly generated posts on top of the samples.
	ExtraPosts int
	// FixturePath optionally points at a YAML file of posts to seed instead
	// of the built-in samples.
	FixturePath string
	// Clean drops existing rows before seeding.
	Clean bool
}

// SamplePost describes one built-in seed post plus the activity to synthesize
// around it. Votes and comments are created as real rows so the cached
// counters stay true to the tables.
type SamplePost struct {
	Title    string
	Tagline  string
	Maker    string
	URL      string
	Votes    int
	Comments int
	AgeDays  int
}

var samples = []SamplePost{
	{
		Title:    "Auto-SaaS Genie",
		Tagline:  "AI that builds and ships micro-SaaS from a prompt.",
		Maker:    "@vibe-wizard",
		URL:      "https://example.com/genie",
		Votes:    28,
		Comments: 6,
		AgeDays:  25,
	},
	{
		Title:    "Recurring Notion Shop",
		Tagline:  "Turn any Notion template into a paid subscription.",
		Maker:    "@opsmith",
		URL:      "https://example.com/notion-shop",
		Votes:    41,
		Comments: 9,
		AgeDays:  5,
	},
	{
		Title:    "Tweet-to-Product",
		Tagline:  "Scrape your best tweets and spin them into a paid course + app.",
		Maker:    "@shipdaily",
		URL:      "https://example.com/tweet-product",
		Votes:    12,
		Comments: 2,
		AgeDays:  2,
	},
	{
		Title:    "API to Airtable Cashflow",
		Tagline:  "One-click Stripe analytics in Airtable with churn & MRR.",
		Maker:    "@revenuebits",
		URL:      "https://example.com/cashflow",
		Votes:    33,
		Comments: 4,
		AgeDays:  15,
	},
}

// Seed populates the database with sample data. It is a no-op when posts
// already exist, so it is safe to run on every boot.
func Seed(db *gorm.DB, opts Options) error {
	if opts.Clean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	var count int64
	if err := db.Model(&models.Post{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count posts: %w", err)
	}
	if count > 0 {
		log.Printf("Seed skipped: %d posts already present", count)
		return nil
	}

	factory := NewFactory(db)

	toSeed := samples
	if opts.FixturePath != "" {
		loaded, err := LoadFixture(opts.FixturePath)
		if err != nil {
			return err
		}
		toSeed = loaded
	}

	posts := make([]*models.Post, 0, len(toSeed))
	for _, s := range toSeed {
		post, err := createSample(db, factory, s)
		if err != nil {
			return fmt.Errorf("failed to seed post %q: %w", s.Title, err)
		}
		posts = append(posts, post)
	}
	log.Printf("✓ %d posts seeded", len(posts))

	// Votes tied to a demo device so the toggle flow works out of the box.
	for _, post := range posts[:min(2, len(posts))] {
		if err := addVote(db, post, DemoDeviceID); err != nil {
			return fmt.Errorf("failed to seed demo vote: %w", err)
		}
	}

	for i := 0; i < opts.ExtraPosts; i++ {
		if _, err := factory.CreatePost(45); err != nil {
			return fmt.Errorf("failed to seed extra post: %w", err)
		}
	}
	if opts.ExtraPosts > 0 {
		log.Printf("✓ %d extra posts seeded", opts.ExtraPosts)
	}

	return nil
}

// createSample inserts the post, then backfills enough vote and comment rows
// for the cached counters to match the tables exactly.
func createSample(db *gorm.DB, factory *Factory, s SamplePost) (*models.Post, error) {
	createdAt := time.Now().UTC().Add(-time.Duration(s.AgeDays) * 24 * time.Hour)
	post := &models.Post{
		Title:     s.Title,
		Tagline:   s.Tagline,
		Maker:     s.Maker,
		URL:       s.URL,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	return post, db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		for i := 0; i < s.Votes; i++ {
			vote := &models.Vote{PostID: post.ID, DeviceID: factory.DeviceID()}
			if err := tx.Create(vote).Error; err != nil {
				return err
			}
		}

		for i := 0; i < s.Comments; i++ {
			if err := tx.Create(factory.BuildComment(post)).Error; err != nil {
				return err
			}
		}

		return tx.Model(post).UpdateColumns(map[string]interface{}{
			"votes_count":    s.Votes,
			"comments_count": s.Comments,
		}).Error
	})
}

// addVote records one vote row and bumps the counter in the same transaction.
func addVote(db *gorm.DB, post *models.Post, deviceID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		vote := &models.Vote{PostID: post.ID, DeviceID: deviceID}
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			UpdateColumn("votes_count", gorm.Expr("votes_count + ?", 1)).Error
	})
}

// LoadFixture reads seed posts from a YAML file.
func LoadFixture(path string) ([]SamplePost, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	var fixture struct {
		Posts []struct {
			Title    string `yaml:"title"`
			Tagline  string `yaml:"tagline"`
			Maker    string `yaml:"maker"`
			URL      string `yaml:"url"`
			Votes    int    `yaml:"votes"`
			Comments int    `yaml:"comments"`
			AgeDays  int    `yaml:"age_days"`
		} `yaml:"posts"`
	}
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}

	loaded := make([]SamplePost, 0, len(fixture.Posts))
	for _, p := range fixture.Posts {
		if p.Title == "" || p.Tagline == "" {
			return nil, fmt.Errorf("fixture %s: every post needs a title and tagline", path)
		}
		loaded = append(loaded, SamplePost{
			Title:    p.Title,
			Tagline:  p.Tagline,
			Maker:    p.Maker,
			URL:      p.URL,
			Votes:    p.Votes,
			Comments: p.Comments,
			AgeDays:  p.AgeDays,
		})
	}
	return loaded, nil
}

func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{&models.Vote{}, &models.Comment{}, &models.Post{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
