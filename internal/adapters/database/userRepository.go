package database

import (
	"context"
	"yatube/internal/core/user"

	"gorm.io/gorm"
)

// UserRepositoryDatabase implements UserRepository with gorm.
type UserRepositoryDatabase struct {
	db *gorm.DB
}

func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
