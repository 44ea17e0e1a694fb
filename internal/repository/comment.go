package repository

import (
	"context"
	"time"

	"vibehunt/internal/cache"
	"vibehunt/internal/models"
	"vibehunt/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations.
// Not-found conditions are reported as gorm.ErrRecordNotFound.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
}

// commentRepository implements CommentRepository
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and increments the post's cached comments_count
// inside a single transaction, so either both land or neither does. Returns
// gorm.ErrRecordNotFound when the referenced post does not exist.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("create", "comments")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, "id = ?", comment.PostID).Error; err != nil {
			return err
		}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", comment.PostID).
			UpdateColumns(map[string]interface{}{
				"comments_count": gorm.Expr("comments_count + ?", 1),
				"updated_at":     time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return err
	}

	cache.InvalidatePost(ctx, comment.PostID)
	cache.InvalidatePostLists(ctx)
	return nil
}

// ListByPost returns the post's comments newest-first. An unknown post simply
// yields an empty slice; existence is not checked here.
func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	defer observability.TrackQuery("list", "comments")()

	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
