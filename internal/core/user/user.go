package user

import (
	"time"

	"github.com/gofrs/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"primary_key;type:char(36)"`
	Username  string    `gorm:"type:varchar(150);unique;not null"`
	FirstName string    `gorm:"type:varchar(150)"`
	LastName  string    `gorm:"type:varchar(150)"`
	Email     string    `gorm:"type:varchar(254)"`
	Password  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// FullName is "First Last", or the username when both are empty.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}
