package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"yatube/internal/config"
	"yatube/internal/core/apperror"
	userEntity "yatube/internal/core/user"
	userPort "yatube/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "yatube"
	tokenLifetime = 24 * time.Hour
	minPassword   = 8
)

// UserService is the identity collaborator: registration, login and session tokens.
type UserService struct {
	UserRepository userPort.UserRepository
	PasswordCost   int
	jwtKey         []byte
}

func NewUserService(repo userPort.UserRepository, jwtKey []byte) *UserService {
	return &UserService{
		UserRepository: repo,
		PasswordCost:   bcrypt.DefaultCost,
		jwtKey:         jwtKey,
	}
}

// RegisterUser creates an account with a bcrypt-hashed password.
func (s *UserService) RegisterUser(ctx context.Context, in userPort.RegisterInput) (*userPort.UserDTO, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, apperror.Invalid("username", "This field is required.")
	}
	if len(in.Password) < minPassword {
		return nil, apperror.Invalid("password", fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPassword))
	}

	if _, err := s.UserRepository.FindByUsername(ctx, username); err == nil {
		return nil, apperror.Invalid("username", "A user with that username already exists.")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.PasswordCost)
	if err != nil {
		return nil, err
	}

	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		ID:        uuid.Must(uuid.NewV4()),
		Username:  username,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
		Password:  string(hashedPassword),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	config.Logger.Info("User registered", zap.String("username", u.Username))
	return userPort.ToDTO(u), nil
}

// LoginUser checks the password and issues a signed session token.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*userPort.LoginResponse, error) {
	u, err := s.UserRepository.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		config.Logger.Info("Invalid password", zap.String("username", u.Username))
		return nil, apperror.ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(tokenLifetime)
	token, err := s.IssueToken(u.ID.String(), expiresAt)
	if err != nil {
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

// IssueToken signs an HS256 token whose subject is userID.
func (s *UserService) IssueToken(userID string, expiresAt time.Time) (string, error) {
	claims := &jwt.StandardClaims{
		Subject:   userID,
		Issuer:    tokenIssuer,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

// ParseToken validates a token and returns its subject.
func (s *UserService) ParseToken(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

// CurrentUser resolves a session token to its user.
func (s *UserService) CurrentUser(ctx context.Context, tokenString string) (*userPort.UserDTO, error) {
	userID, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, userID)
}

func (s *UserService) FindByID(ctx context.Context, id string) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return userPort.ToDTO(u), nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return userPort.ToDTO(u), nil
}
