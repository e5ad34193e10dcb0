package follower

import (
	"context"
	"yatube/internal/core/follower"
)

// FollowerRepository stores the follow relation.
type FollowerRepository interface {
	// Follow inserts the pair unless it already exists.
	Follow(ctx context.Context, follow *follower.Follow) error
	Unfollow(ctx context.Context, userID, authorID string) error
	IsFollowing(ctx context.Context, userID, authorID string) (bool, error)
	CountFollowers(ctx context.Context, authorID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}
