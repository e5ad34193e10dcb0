package follower

import (
	"time"
	"yatube/internal/core/user"

	"github.com/gofrs/uuid"
)

// Follow is a directed subscription: User follows Author.
type Follow struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_user_author"`
	User      user.User `gorm:"foreignKey:UserID"`
	AuthorID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:uniq_user_author;index"`
	Author    user.User `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
