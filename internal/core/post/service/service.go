package postapp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"yatube/internal/config"
	"yatube/internal/core/apperror"
	groupEntity "yatube/internal/core/group"
	"yatube/internal/core/pagination"
	postEntity "yatube/internal/core/post"
	commentPort "yatube/internal/ports/comment"
	followerPort "yatube/internal/ports/follower"
	groupPort "yatube/internal/ports/group"
	mediaPort "yatube/internal/ports/media"
	postPort "yatube/internal/ports/post"
	userPort "yatube/internal/ports/user"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// imageDir is where post pictures are stored inside the media root.
const imageDir = "posts"

// sniffLen is how many leading bytes are read to detect an image type.
const sniffLen = 3072

type PostService struct {
	PostRepository     postPort.PostRepository
	GroupRepository    groupPort.GroupRepository
	UserRepository     userPort.UserRepository
	CommentRepository  commentPort.CommentRepository
	FollowerRepository followerPort.FollowerRepository
	Media              mediaPort.Storage
	PerPage            int
	Now                func() time.Time
}

func NewPostService(
	postRepo postPort.PostRepository,
	groupRepo groupPort.GroupRepository,
	userRepo userPort.UserRepository,
	commentRepo commentPort.CommentRepository,
	followerRepo followerPort.FollowerRepository,
	media mediaPort.Storage,
	perPage int,
) *PostService {
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}
	return &PostService{
		PostRepository:     postRepo,
		GroupRepository:    groupRepo,
		UserRepository:     userRepo,
		CommentRepository:  commentRepo,
		FollowerRepository: followerRepo,
		Media:              media,
		PerPage:            perPage,
		Now:                func() time.Time { return time.Now().UTC() },
	}
}

// ListIndex pages through every post, newest first.
func (s *PostService) ListIndex(ctx context.Context, page int) (*postPort.PageDTO, error) {
	p := pagination.New(page, s.PerPage, 0)
	posts, total, err := s.PostRepository.ListAll(ctx, p.Offset(), p.Limit())
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return postPort.NewPageDTO(pagination.New(page, s.PerPage, total), posts), nil
}

// ListGroup pages through the posts of the group with slug.
func (s *PostService) ListGroup(ctx context.Context, slug string, page int) (*postPort.GroupPageDTO, error) {
	g, err := s.GroupRepository.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	p := pagination.New(page, s.PerPage, 0)
	posts, total, err := s.PostRepository.ListByGroup(ctx, g.ID.String(), p.Offset(), p.Limit())
	if err != nil {
		return nil, fmt.Errorf("failed to list group posts: %w", err)
	}
	return &postPort.GroupPageDTO{
		Group: groupPort.ToDTO(g),
		Page:  postPort.NewPageDTO(pagination.New(page, s.PerPage, total), posts),
	}, nil
}

// ListProfile pages through the posts of username. viewerID is empty for
// anonymous viewers.
func (s *PostService) ListProfile(ctx context.Context, username, viewerID string, page int) (*postPort.ProfileDTO, error) {
	author, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	authorID := author.ID.String()

	p := pagination.New(page, s.PerPage, 0)
	posts, total, err := s.PostRepository.ListByAuthor(ctx, authorID, p.Offset(), p.Limit())
	if err != nil {
		return nil, fmt.Errorf("failed to list profile posts: %w", err)
	}

	profile := &postPort.ProfileDTO{
		Author:     userPort.ToDTO(author),
		PostsCount: total,
		IsSelf:     viewerID == authorID,
		Page:       postPort.NewPageDTO(pagination.New(page, s.PerPage, total), posts),
	}

	if profile.Followers, err = s.FollowerRepository.CountFollowers(ctx, authorID); err != nil {
		return nil, err
	}
	if profile.Followings, err = s.FollowerRepository.CountFollowing(ctx, authorID); err != nil {
		return nil, err
	}
	if viewerID != "" {
		if profile.Following, err = s.FollowerRepository.IsFollowing(ctx, viewerID, authorID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// GetPostDetail loads a post with its comments, oldest comment first.
func (s *PostService) GetPostDetail(ctx context.Context, postID string) (*postPort.PostDetailDTO, error) {
	p, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	count, err := s.PostRepository.CountByAuthor(ctx, p.AuthorID.String())
	if err != nil {
		return nil, err
	}

	comments, err := s.CommentRepository.ListByPost(ctx, p.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	dtos := make([]*commentPort.CommentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, commentPort.ToDTO(c))
	}

	return &postPort.PostDetailDTO{
		Post:             postPort.ToDTO(p),
		AuthorPostsCount: count,
		Comments:         dtos,
	}, nil
}

// GetPostForEdit returns the post if actorID may edit it, ErrForbidden otherwise.
func (s *PostService) GetPostForEdit(ctx context.Context, actorID, postID string) (*postPort.PostDTO, error) {
	p, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID.String() != actorID {
		return nil, apperror.ErrForbidden
	}
	return postPort.ToDTO(p), nil
}

// CreatePost stores a new post by authorID, stamped with the current time.
func (s *PostService) CreatePost(ctx context.Context, authorID string, in postPort.PostInput) (*postPort.PostDTO, error) {
	author, err := s.UserRepository.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	text, g, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	p := &postEntity.Post{
		ID:       uuid.Must(uuid.NewV4()),
		Text:     text,
		PubDate:  s.Now(),
		AuthorID: author.ID,
	}
	if g != nil {
		p.GroupID = &g.ID
	}
	if in.Image != nil {
		if p.Image, err = s.saveImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}

	created, err := s.PostRepository.Create(ctx, p)
	if err != nil {
		s.discardImage(ctx, p.Image)
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	created.Author = *author
	created.Group = g

	config.Logger.Info("Created post",
		zap.String("postID", created.ID.String()),
		zap.String("author", author.Username))
	return postPort.ToDTO(created), nil
}

// EditPost updates text, group and image when actorID is the author. Any other
// actor gets ErrForbidden and the post is left untouched.
func (s *PostService) EditPost(ctx context.Context, actorID, postID string, in postPort.PostInput) (*postPort.PostDTO, error) {
	p, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID.String() != actorID {
		config.Logger.Warn("Edit rejected for non-author",
			zap.String("postID", postID),
			zap.String("actorID", actorID))
		return nil, apperror.ErrForbidden
	}

	text, g, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	p.Text = text
	p.GroupID = nil
	p.Group = g
	if g != nil {
		p.GroupID = &g.ID
	}
	stored := ""
	if in.Image != nil {
		if stored, err = s.saveImage(ctx, in.Image); err != nil {
			return nil, err
		}
		p.Image = stored
	}

	if err := s.PostRepository.Update(ctx, p); err != nil {
		s.discardImage(ctx, stored)
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	config.Logger.Info("Edited post", zap.String("postID", postID))
	return postPort.ToDTO(p), nil
}

func (s *PostService) findPost(ctx context.Context, postID string) (*postEntity.Post, error) {
	if _, err := uuid.FromString(postID); err != nil {
		return nil, apperror.ErrNotFound
	}
	return s.PostRepository.FindByID(ctx, postID)
}

// validate checks the form fields and resolves the group, if any.
func (s *PostService) validate(ctx context.Context, in postPort.PostInput) (string, *groupEntity.Group, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return "", nil, apperror.Invalid("text", "This field is required.")
	}

	groupID := strings.TrimSpace(in.GroupID)
	if groupID == "" {
		return text, nil, nil
	}
	invalidGroup := apperror.Invalid("group", "Select a valid choice. That choice is not one of the available choices.")
	if _, err := uuid.FromString(groupID); err != nil {
		return "", nil, invalidGroup
	}
	g, err := s.GroupRepository.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", nil, invalidGroup
		}
		return "", nil, err
	}
	return text, g, nil
}

// saveImage checks that the upload is an image and stores it.
func (s *PostService) saveImage(ctx context.Context, img *postPort.ImageUpload) (string, error) {
	invalid := apperror.Invalid("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	if s.Media == nil {
		return "", errors.New("no media storage configured")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(img.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	head = head[:n]
	if n == 0 || !strings.HasPrefix(mimetype.Detect(head).String(), "image/") {
		return "", invalid
	}

	path, err := s.Media.Save(ctx, imageDir, img.Filename, io.MultiReader(bytes.NewReader(head), img.Content))
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return path, nil
}

// discardImage removes an image stored for a post that was never saved.
func (s *PostService) discardImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.Media.Delete(ctx, path); err != nil {
		config.Logger.Warn("Failed to remove orphan image", zap.String("path", path), zap.Error(err))
	}
}
