package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/showfinder/internal/domain/user"
)

var (
	ErrDuplicateUser      = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, params user.CreateParams) (user.User, error)
}

type PasswordHasher interface {
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) error
}

type SignUpInput struct {
	Email       string
	Password    string
	DisplayName string
	City        string
	Lat         *float64
	Long        *float64
}

// Service issues session tokens for new and returning users.
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens *Manager
}

func NewService(users UserStore, hasher PasswordHasher, tokens *Manager) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (string, error) {
	email := normalizeEmail(in.Email)

	_, err := s.users.GetByEmail(ctx, email)

	switch {
	case err == nil:
		return "", ErrDuplicateUser
	case !errors.Is(err, user.ErrNotFound):
		return "", fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, user.CreateParams{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		CityName:     in.City,
		Lat:          in.Lat,
		Long:         in.Long,
	})

	if err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, user.ErrEmailTaken) {
			return "", ErrDuplicateUser
		}

		return "", fmt.Errorf("create user: %w", err)
	}

	return s.tokens.GenerateAccessToken(u.ID, u.Email)
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("lookup user: %w", err)
	}

	if err := s.hasher.CheckPassword(u.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.GenerateAccessToken(u.ID, u.Email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
