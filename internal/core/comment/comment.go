package comment

import (
	"time"
	"yatube/internal/core/post"
	"yatube/internal/core/user"

	"github.com/gofrs/uuid"
)

type Comment struct {
	ID       uuid.UUID `gorm:"primary_key;type:char(36)"`
	PostID   uuid.UUID `gorm:"type:char(36);index;not null"`
	Post     post.Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
	AuthorID uuid.UUID `gorm:"type:char(36);not null"`
	Author   user.User `gorm:"foreignKey:AuthorID"`
	Text     string    `gorm:"type:text;not null"`
	Created  time.Time `gorm:"index;not null"`
}
