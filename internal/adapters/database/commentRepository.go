package database

import (
	"context"
	"yatube/internal/core/comment"

	"gorm.io/gorm"
)

// CommentRepositoryDatabase implements CommentRepository with gorm.
type CommentRepositoryDatabase struct {
	db *gorm.DB
}

func NewCommentRepositoryDatabase(db *gorm.DB) *CommentRepositoryDatabase {
	return &CommentRepositoryDatabase{db: db}
}

func (repo *CommentRepositoryDatabase) Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	if err := repo.db.WithContext(ctx).Omit("Post", "Author").Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (repo *CommentRepositoryDatabase) ListByPost(ctx context.Context, postID string) ([]*comment.Comment, error) {
	var comments []*comment.Comment
	if err := repo.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
