package service

import (
	"context"
	"errors"
	"strings"

	"vibehunt/internal/models"
	"vibehunt/internal/observability"
	"vibehunt/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentService struct {
	commentRepo repository.CommentRepository
}

type AddCommentInput struct {
	PostID   uuid.UUID
	Content  string
	Author   string
	DeviceID string
}

func NewCommentService(commentRepo repository.CommentRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
	}
}

// AddComment appends a comment to a post. Content is trimmed and must be
// non-empty. There is no dedup: the same device may comment any number of
// times.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	const maxCommentLen = 10000

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		Author:   strings.TrimSpace(in.Author),
		Content:  content,
		DeviceID: strings.TrimSpace(in.DeviceID),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, models.NewStoreUnavailableError(err)
	}

	observability.CommentsCreated.Inc()
	return comment, nil
}

// ListComments returns a post's comments newest-first. Unlike AddComment the
// post's existence is not checked: an absent post yields an empty slice.
func (s *CommentService) ListComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, nil
}
