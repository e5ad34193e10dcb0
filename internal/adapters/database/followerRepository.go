package database

import (
	"context"
	"yatube/internal/core/follower"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowerRepositoryDatabase implements FollowerRepository with gorm.
type FollowerRepositoryDatabase struct {
	db *gorm.DB
}

func NewFollowerRepositoryDatabase(db *gorm.DB) *FollowerRepositoryDatabase {
	return &FollowerRepositoryDatabase{db: db}
}

// Follow relies on the (user_id, author_id) unique index; a repeated pair is ignored.
func (repo *FollowerRepositoryDatabase) Follow(ctx context.Context, f *follower.Follow) error {
	return repo.db.WithContext(ctx).
		Omit("User", "Author").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(f).Error
}

func (repo *FollowerRepositoryDatabase) Unfollow(ctx context.Context, userID, authorID string) error {
	return repo.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&follower.Follow{}).Error
}

func (repo *FollowerRepositoryDatabase) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&follower.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (repo *FollowerRepositoryDatabase) CountFollowers(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&follower.Follow{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *FollowerRepositoryDatabase) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&follower.Follow{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
