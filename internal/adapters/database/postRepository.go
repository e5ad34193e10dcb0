package database

import (
	"context"
	"yatube/internal/core/follower"
	"yatube/internal/core/post"

	"gorm.io/gorm"
)

// PostRepositoryDatabase implements PostRepository with gorm.
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Omit("Author", "Group").Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Update writes the mutable columns only; pub_date and author never change.
func (repo *PostRepositoryDatabase) Update(ctx context.Context, p *post.Post) error {
	return repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("id = ?", p.ID).
		Select("text", "group_id", "image").
		Updates(map[string]interface{}{
			"text":     p.Text,
			"group_id": p.GroupID,
			"image":    p.Image,
		}).Error
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("id = ?", id).
		First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) ListAll(ctx context.Context, offset, limit int) ([]*post.Post, int64, error) {
	return repo.list(ctx, func(q *gorm.DB) *gorm.DB { return q }, offset, limit)
}

func (repo *PostRepositoryDatabase) ListByGroup(ctx context.Context, groupID string, offset, limit int) ([]*post.Post, int64, error) {
	return repo.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("group_id = ?", groupID)
	}, offset, limit)
}

func (repo *PostRepositoryDatabase) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*post.Post, int64, error) {
	return repo.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("author_id = ?", authorID)
	}, offset, limit)
}

// ListFollowed filters with a subquery so a post shows up once no matter how
// the follow rows look.
func (repo *PostRepositoryDatabase) ListFollowed(ctx context.Context, userID string, offset, limit int) ([]*post.Post, int64, error) {
	followed := repo.db.WithContext(ctx).Model(&follower.Follow{}).Select("author_id").Where("user_id = ?", userID)
	return repo.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("author_id IN (?)", followed)
	}, offset, limit)
}

func (repo *PostRepositoryDatabase) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *PostRepositoryDatabase) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, offset, limit int) ([]*post.Post, int64, error) {
	var total int64
	if err := scope(repo.db.WithContext(ctx).Model(&post.Post{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := make([]*post.Post, 0, limit)
	if offset < 0 || int64(offset) >= total {
		return posts, total, nil
	}

	if err := scope(repo.db.WithContext(ctx)).
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
