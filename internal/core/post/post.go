package post

import (
	"time"
	"unicode/utf8"
	"yatube/internal/core/group"
	"yatube/internal/core/user"

	"github.com/gofrs/uuid"
)

// titleLen is how much of the text String() shows.
const titleLen = 15

type Post struct {
	ID       uuid.UUID    `gorm:"primary_key;type:char(36)"`
	Text     string       `gorm:"type:text;not null"`
	PubDate  time.Time    `gorm:"index;not null"`
	AuthorID uuid.UUID    `gorm:"type:char(36);index;not null"`
	Author   user.User    `gorm:"foreignKey:AuthorID"`
	GroupID  *uuid.UUID   `gorm:"type:char(36);index"`
	Group    *group.Group `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL;"`
	Image    string       `gorm:"type:varchar(255)"`
}

func (p Post) String() string {
	if utf8.RuneCountInString(p.Text) <= titleLen {
		return p.Text
	}
	return string([]rune(p.Text)[:titleLen])
}
