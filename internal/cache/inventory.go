package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	PostKeyPrefix     = "post:%s"
	PostListKeyPrefix = "posts:%s:%s"
)

const (
	PostTTL     = 5 * time.Minute
	PostListTTL = 30 * time.Second
)

// Known range and sort labels; listings are cached per combination so every
// write can invalidate the full inventory deterministically.
var (
	listRanges = []string{"all", "week", "month"}
	listSorts  = []string{"votes", "comments", "latest"}
)

func PostKey(postID uuid.UUID) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// PostListKey builds the cache key for a listing. Callers must pass
// normalized range and sort labels.
func PostListKey(rng, sort string) string {
	return fmt.Sprintf(PostListKeyPrefix, rng, sort)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uuid.UUID) {
	Invalidate(ctx, PostKey(postID))
}

// InvalidatePostLists drops every cached listing combination.
func InvalidatePostLists(ctx context.Context) {
	if client == nil {
		return
	}
	keys := make([]string, 0, len(listRanges)*len(listSorts))
	for _, rng := range listRanges {
		for _, sort := range listSorts {
			keys = append(keys, PostListKey(rng, sort))
		}
	}
	client.Del(ctx, keys...)
}
