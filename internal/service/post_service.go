// Package service implements the application's business operations on top of
// the repository layer.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"vibehunt/internal/cache"
	"vibehunt/internal/models"
	"vibehunt/internal/observability"
	"vibehunt/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recognized range and sort labels. Anything else falls back to the default
// (no range bound, sort by votes).
const (
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeAll   = "all"

	SortVotes    = "votes"
	SortComments = "comments"
	SortLatest   = "latest"
)

type PostService struct {
	postRepo repository.PostRepository
	now      func() time.Time
}

type CreatePostInput struct {
	Title   string
	Tagline string
	Maker   string
	URL     string
}

// VoteResult reports the state after a settled toggle. Votes is the
// authoritative post-update counter value.
type VoteResult struct {
	Voted bool `json:"voted"`
	Votes int  `json:"votes"`
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		now:      time.Now,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxTitleLen = 300
	const maxTaglineLen = 500

	title := strings.TrimSpace(in.Title)
	tagline := strings.TrimSpace(in.Tagline)

	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if tagline == "" {
		return nil, models.NewValidationError("Tagline is required")
	}
	if len(tagline) > maxTaglineLen {
		return nil, models.NewValidationError("Tagline too long (max 500 characters)")
	}

	post := &models.Post{
		Title:   title,
		Tagline: tagline,
		Maker:   strings.TrimSpace(in.Maker),
		URL:     strings.TrimSpace(in.URL),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return post, nil
}

// ListPosts returns all posts created within the requested range, ordered by
// the requested sort key with created_at descending as the tie-break.
func (s *PostService) ListPosts(ctx context.Context, rng, sort string) ([]*models.Post, error) {
	var since time.Time
	switch rng {
	case RangeWeek:
		since = s.now().UTC().Add(-7 * 24 * time.Hour)
	case RangeMonth:
		since = s.now().UTC().Add(-30 * 24 * time.Hour)
	}

	posts := []*models.Post{}
	key := cache.PostListKey(normalizeRange(rng), normalizeSort(sort))
	err := cache.Aside(ctx, key, &posts, cache.PostListTTL, func() error {
		fetched, err := s.postRepo.List(ctx, repository.ListPostsFilter{Since: since, Sort: sort})
		if err != nil {
			return err
		}
		if fetched != nil {
			posts = fetched
		}
		return nil
	})
	if err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewStoreUnavailableError(err)
	}
	return post, nil
}

// ToggleVote flips the vote state of (post, device). Device identity is a
// bare client-supplied token; it is required but never verified.
func (s *PostService) ToggleVote(ctx context.Context, postID uuid.UUID, deviceID string) (*VoteResult, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, models.NewValidationError("device_id is required")
	}

	voted, votes, err := s.postRepo.ToggleVote(ctx, postID, deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewStoreUnavailableError(err)
	}

	state := "unvoted"
	if voted {
		state = "voted"
	}
	observability.VotesToggled.WithLabelValues(state).Inc()

	return &VoteResult{Voted: voted, Votes: votes}, nil
}

func normalizeRange(rng string) string {
	switch rng {
	case RangeWeek, RangeMonth:
		return rng
	default:
		return RangeAll
	}
}

func normalizeSort(sort string) string {
	switch sort {
	case SortComments, SortLatest:
		return sort
	default:
		return SortVotes
	}
}
