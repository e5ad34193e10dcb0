package user

import (
	"context"
	"yatube/internal/core/user"
)

// UserRepository stores and loads users.
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
}

type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

func ToDTO(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:       u.ID.String(),
		Username: u.Username,
		FullName: u.FullName(),
	}
}
