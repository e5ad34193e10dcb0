package group

import (
	"github.com/gofrs/uuid"
)

type Group struct {
	ID          uuid.UUID `gorm:"primary_key;type:char(36)"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string    `gorm:"type:text"`
}

func (g Group) String() string { return g.Title }
