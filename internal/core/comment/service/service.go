package commentapp

import (
	"context"
	"fmt"
	"strings"
	"time"
	"yatube/internal/config"
	"yatube/internal/core/apperror"
	commentEntity "yatube/internal/core/comment"
	commentPort "yatube/internal/ports/comment"
	postPort "yatube/internal/ports/post"
	userPort "yatube/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type CommentService struct {
	CommentRepository commentPort.CommentRepository
	PostRepository    postPort.PostRepository
	UserRepository    userPort.UserRepository
	Now               func() time.Time
}

func NewCommentService(
	commentRepo commentPort.CommentRepository,
	postRepo postPort.PostRepository,
	userRepo userPort.UserRepository,
) *CommentService {
	return &CommentService{
		CommentRepository: commentRepo,
		PostRepository:    postRepo,
		UserRepository:    userRepo,
		Now:               func() time.Time { return time.Now().UTC() },
	}
}

// AddComment appends a comment by actorID to postID. Text is free-form and only
// has to be non-blank.
func (s *CommentService) AddComment(ctx context.Context, actorID, postID, text string) (*commentPort.CommentDTO, error) {
	if _, err := uuid.FromString(postID); err != nil {
		return nil, apperror.ErrNotFound
	}
	p, err := s.PostRepository.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	author, err := s.UserRepository.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.Invalid("text", "This field is required.")
	}

	c, err := s.CommentRepository.Create(ctx, &commentEntity.Comment{
		ID:       uuid.Must(uuid.NewV4()),
		PostID:   p.ID,
		AuthorID: author.ID,
		Text:     text,
		Created:  s.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	c.Author = *author

	config.Logger.Info("Comment added",
		zap.String("postID", postID),
		zap.String("author", author.Username))
	return commentPort.ToDTO(c), nil
}
