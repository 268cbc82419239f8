package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/splitify/splitify/internal/auth"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email is already registered")
)

// Store defines the persistence operations the user service depends on.
type Store interface {
	Create(ctx context.Context, username, email, passwordHash string, avatarURL *string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error)
}

// Service contains user business logic
type Service struct {
	store Store
	jwt   *auth.JWTManager
}

// NewService creates a new user service
func NewService(store Store, jwt *auth.JWTManager) *Service {
	return &Service{store: store, jwt: jwt}
}

// Register creates a new account and returns a session token for it.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user, err := s.store.Create(ctx, req.Username, email, hash, req.AvatarURL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and returns a session token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", auth.ErrInvalidCredentials
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// GetByID retrieves a user by ID.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update modifies the caller's own profile.
func (s *Service) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	user, err := s.store.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
