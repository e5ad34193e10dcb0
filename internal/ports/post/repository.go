package post

import (
	"context"
	"io"
	"time"
	"yatube/internal/core/pagination"
	"yatube/internal/core/post"
	commentPort "yatube/internal/ports/comment"
	groupPort "yatube/internal/ports/group"
	userPort "yatube/internal/ports/user"
)

// PostRepository stores and loads posts. List methods return posts newest first
// together with the total count of the unpaginated query.
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	Update(ctx context.Context, post *post.Post) error
	FindByID(ctx context.Context, id string) (*post.Post, error)
	ListAll(ctx context.Context, offset, limit int) ([]*post.Post, int64, error)
	ListByGroup(ctx context.Context, groupID string, offset, limit int) ([]*post.Post, int64, error)
	ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*post.Post, int64, error)
	// ListFollowed lists posts by every author that userID follows.
	ListFollowed(ctx context.Context, userID string, offset, limit int) ([]*post.Post, int64, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

// ImageUpload is an optional picture attached to a post form.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// PostInput is the create/edit form payload. GroupID is empty for no group.
type PostInput struct {
	Text    string
	GroupID string
	Image   *ImageUpload
}

type PostDTO struct {
	ID      string              `json:"id"`
	Text    string              `json:"text"`
	Title   string              `json:"title"`
	PubDate time.Time           `json:"pub_date"`
	Author  *userPort.UserDTO   `json:"author"`
	Group   *groupPort.GroupDTO `json:"group,omitempty"`
	Image   string              `json:"image,omitempty"`
}

// PageDTO is one page of a post listing.
type PageDTO struct {
	pagination.Page
	Posts []*PostDTO `json:"posts"`
}

func ToDTO(p *post.Post) *PostDTO {
	if p == nil {
		return nil
	}
	dto := &PostDTO{
		ID:      p.ID.String(),
		Text:    p.Text,
		Title:   p.String(),
		PubDate: p.PubDate,
		Author:  userPort.ToDTO(&p.Author),
		Image:   p.Image,
	}
	if p.Group != nil {
		dto.Group = groupPort.ToDTO(p.Group)
	}
	return dto
}

// NewPageDTO wraps a page window and its posts.
func NewPageDTO(page pagination.Page, posts []*post.Post) *PageDTO {
	dtos := make([]*PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, ToDTO(p))
	}
	return &PageDTO{Page: page, Posts: dtos}
}

// GroupPageDTO is a group header plus one page of its posts.
type GroupPageDTO struct {
	Group *groupPort.GroupDTO `json:"group"`
	Page  *PageDTO            `json:"page"`
}

// ProfileDTO is an author's profile page. Following is false for anonymous viewers.
type ProfileDTO struct {
	Author     *userPort.UserDTO `json:"author"`
	PostsCount int64             `json:"posts_count"`
	Followers  int64             `json:"followers"`
	Followings int64             `json:"followings"`
	Following  bool              `json:"following"`
	IsSelf     bool              `json:"is_self"`
	Page       *PageDTO          `json:"page"`
}

// PostDetailDTO is a post with its comments.
type PostDetailDTO struct {
	Post             *PostDTO                  `json:"post"`
	AuthorPostsCount int64                     `json:"author_posts_count"`
	Comments         []*commentPort.CommentDTO `json:"comments"`
}
