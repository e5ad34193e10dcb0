package database

import (
	"yatube/internal/config"
	"yatube/internal/core/comment"
	"yatube/internal/core/follower"
	"yatube/internal/core/group"
	"yatube/internal/core/post"
	"yatube/internal/core/user"

	"gorm.io/gorm"
)

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&user.User{},
		&group.Group{},
		&post.Post{},
		&comment.Comment{},
		&follower.Follow{},
	); err != nil {
		return err
	}
	config.Logger.Info("Database migrations completed")
	return nil
}
