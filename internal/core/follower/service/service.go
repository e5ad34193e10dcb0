package followerapp

import (
	"context"
	"fmt"
	"yatube/internal/config"
	"yatube/internal/core/apperror"
	followerEntity "yatube/internal/core/follower"
	"yatube/internal/core/pagination"
	followerPort "yatube/internal/ports/follower"
	postPort "yatube/internal/ports/post"
	userPort "yatube/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type FollowerService struct {
	FollowerRepository followerPort.FollowerRepository
	UserRepository     userPort.UserRepository
	PostRepository     postPort.PostRepository
	PerPage            int
}

func NewFollowerService(
	repo followerPort.FollowerRepository,
	userRepo userPort.UserRepository,
	postRepo postPort.PostRepository,
	perPage int,
) *FollowerService {
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}
	return &FollowerService{
		FollowerRepository: repo,
		UserRepository:     userRepo,
		PostRepository:     postRepo,
		PerPage:            perPage,
	}
}

// Follow subscribes actorID to username. Following twice is a no-op; following
// yourself returns ErrSelfFollow and stores nothing.
func (s *FollowerService) Follow(ctx context.Context, actorID, username string) error {
	author, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if author.ID.String() == actorID {
		config.Logger.Warn("Cannot follow yourself", zap.String("userID", actorID))
		return apperror.ErrSelfFollow
	}

	userID, err := uuid.FromString(actorID)
	if err != nil {
		return fmt.Errorf("invalid actor id %q: %w", actorID, err)
	}

	if err := s.FollowerRepository.Follow(ctx, &followerEntity.Follow{
		ID:       uuid.Must(uuid.NewV4()),
		UserID:   userID,
		AuthorID: author.ID,
	}); err != nil {
		return fmt.Errorf("failed to follow %s: %w", username, err)
	}
	config.Logger.Info("Followed", zap.String("userID", actorID), zap.String("author", username))
	return nil
}

// Unfollow removes the subscription if there is one.
func (s *FollowerService) Unfollow(ctx context.Context, actorID, username string) error {
	author, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.FollowerRepository.Unfollow(ctx, actorID, author.ID.String()); err != nil {
		return fmt.Errorf("failed to unfollow %s: %w", username, err)
	}
	config.Logger.Info("Unfollowed", zap.String("userID", actorID), zap.String("author", username))
	return nil
}

// ListFollowedFeed pages through posts by every author actorID follows.
func (s *FollowerService) ListFollowedFeed(ctx context.Context, actorID string, page int) (*postPort.PageDTO, error) {
	p := pagination.New(page, s.PerPage, 0)
	posts, total, err := s.PostRepository.ListFollowed(ctx, actorID, p.Offset(), p.Limit())
	if err != nil {
		return nil, fmt.Errorf("failed to list followed feed: %w", err)
	}
	return postPort.NewPageDTO(pagination.New(page, s.PerPage, total), posts), nil
}
