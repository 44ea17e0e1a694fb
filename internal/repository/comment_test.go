package repository

import (
	"context"
	"testing"
	"time"

	"vibehunt/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostRepository(db)
	repo := NewCommentRepository(db)
	post := createTestPost(t, db, "commented")

	comment := &models.Comment{
		PostID:   post.ID,
		Author:   "@shipdaily",
		Content:  "great concept",
		DeviceID: "device-1",
	}
	require.NoError(t, repo.Create(context.Background(), comment))

	assert.NotEqual(t, uuid.Nil, comment.ID)
	assert.False(t, comment.CreatedAt.IsZero())

	got, err := postRepo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentsCount)
	assert.Equal(t, int64(1), countComments(t, db, post))
}

func TestCommentRepository_Create_NoDedup(t *testing.T) {
	db := setupTestDB(t)
	postRepo := NewPostRepository(db)
	repo := NewCommentRepository(db)
	post := createTestPost(t, db, "chatty")

	// The same device may comment any number of times.
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), &models.Comment{
			PostID:   post.ID,
			Content:  "again",
			DeviceID: "device-1",
		}))
	}

	got, err := postRepo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CommentsCount)
	assert.Equal(t, int64(3), countComments(t, db, post))
}

func TestCommentRepository_Create_UnknownPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	err := repo.Create(context.Background(), &models.Comment{PostID: uuid.New(), Content: "orphan"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var comments int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	assert.Zero(t, comments, "a failed append must not leave a comment record")
}

func TestCommentRepository_ListByPost_Order(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	post := createTestPost(t, db, "discussed")

	first := &models.Comment{PostID: post.ID, Content: "first"}
	require.NoError(t, repo.Create(context.Background(), first))
	second := &models.Comment{PostID: post.ID, Content: "second"}
	require.NoError(t, repo.Create(context.Background(), second))

	// Separate the timestamps explicitly; inserts within the same test can
	// land on the same clock tick.
	require.NoError(t, db.Model(&models.Comment{}).
		Where("id = ?", first.ID).
		UpdateColumn("created_at", time.Now().UTC().Add(-time.Minute)).Error)

	comments, err := repo.ListByPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, "first", comments[1].Content)
}

func TestCommentRepository_ListByPost_UnknownPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)

	comments, err := repo.ListByPost(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, comments)
}
