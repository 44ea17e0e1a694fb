package repository

import (
	"context"
	"testing"
	"time"

	"vibehunt/internal/database"
	"vibehunt/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory sqlite database. The connection pool is
// capped at one so concurrent test goroutines share the same database and
// serialize at the store, mirroring a transactional backend.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	require.NoError(t, err, "open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db), "migrate sqlite")
	return db
}

func createTestPost(t *testing.T, db *gorm.DB, title string) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Tagline: "a test tagline"}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}

// backdatePost rewrites created_at directly; the repositories never expose a
// way to do this.
func backdatePost(t *testing.T, db *gorm.DB, post *models.Post, createdAt time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.Post{}).
		Where("id = ?", post.ID).
		UpdateColumn("created_at", createdAt).Error)
	post.CreatedAt = createdAt
}

func countVotes(t *testing.T, db *gorm.DB, post *models.Post) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&n).Error)
	return n
}

func countComments(t *testing.T, db *gorm.DB, post *models.Post) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&n).Error)
	return n
}
