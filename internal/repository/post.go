// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"vibehunt/internal/cache"
	"vibehunt/internal/models"
	"vibehunt/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListPostsFilter narrows and orders a post listing. A zero Since means no
// creation-time lower bound.
type ListPostsFilter struct {
	Since time.Time
	Sort  string
}

// PostRepository defines the interface for post data operations.
// Not-found conditions are reported as gorm.ErrRecordNotFound.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, filter ListPostsFilter) ([]*models.Post, error)
	ToggleVote(ctx context.Context, postID uuid.UUID, deviceID string) (voted bool, votes int, err error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()

	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidatePostLists(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	defer observability.TrackQuery("read", "posts")()

	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		return r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter ListPostsFilter) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()

	q := r.db.WithContext(ctx).Model(&models.Post{})
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}

	var posts []*models.Post
	if err := applySort(q, filter.Sort).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// applySort appends the ORDER BY clause for the requested sort type.
// created_at is always the secondary key so primary-key ties resolve to
// newest-first.
func applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "comments":
		return db.Order("comments_count DESC, created_at DESC")
	case "latest":
		return db.Order("created_at DESC")
	default: // "votes" and anything unrecognized
		return db.Order("votes_count DESC, created_at DESC")
	}
}

// ToggleVote flips the vote state for (postID, deviceID) and adjusts the
// post's cached votes_count inside a single transaction. The counter is
// mutated with a SQL-level delta so concurrent toggles from distinct devices
// always sum correctly. The returned count is read after the delta is
// applied, within the same transaction.
func (r *postRepository) ToggleVote(ctx context.Context, postID uuid.UUID, deviceID string) (bool, int, error) {
	defer observability.TrackQuery("toggle_vote", "votes")()

	var (
		voted bool
		votes int
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, "id = ?", postID).Error; err != nil {
			return err
		}

		var existing models.Vote
		err := tx.Where("post_id = ? AND device_id = ?", postID, deviceID).First(&existing).Error
		switch {
		case err == nil:
			// unvote
			if err := tx.Delete(&models.Vote{}, "id = ?", existing.ID).Error; err != nil {
				return err
			}
			if err := applyVoteDelta(tx, postID, -1); err != nil {
				return err
			}
			voted = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			// vote
			vote := models.Vote{PostID: postID, DeviceID: deviceID}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
			if err := applyVoteDelta(tx, postID, 1); err != nil {
				return err
			}
			voted = true
		default:
			return err
		}

		var updated models.Post
		if err := tx.Select("votes_count").First(&updated, "id = ?", postID).Error; err != nil {
			return err
		}
		votes = updated.VotesCount
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	cache.InvalidatePost(ctx, postID)
	cache.InvalidatePostLists(ctx)
	return voted, votes, nil
}

func applyVoteDelta(tx *gorm.DB, postID uuid.UUID, delta int) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumns(map[string]interface{}{
			"votes_count": gorm.Expr("votes_count + ?", delta),
			"updated_at":  time.Now().UTC(),
		}).Error
}
