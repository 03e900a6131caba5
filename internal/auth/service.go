package auth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/mrlokans/studentlearn/internal/config"
	"github.com/mrlokans/studentlearn/internal/database/users"
	"github.com/mrlokans/studentlearn/internal/entities"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrBadCredentials     = errors.New("incorrect email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("invalid email format")
	ErrNameRequired       = errors.New("full name is required")
)

// Service handles account registration and credential checks.
type Service struct {
	users  *users.Repository
	config config.Auth
}

// NewService creates a new authentication service. An empty JWT secret is
// replaced with a random per-process one.
func NewService(repo *users.Repository, cfg config.Auth) (*Service, error) {
	if cfg.JWTSecret == "" {
		secret, err := GenerateSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate signing secret: %w", err)
		}
		cfg.JWTSecret = secret
	}
	return &Service{users: repo, config: cfg}, nil
}

// Register creates a new student account. Emails are unique across the
// system regardless of the existing account's active flag.
func (s *Service) Register(email, fullName, password string) (*entities.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if fullName == "" {
		return nil, ErrNameRequired
	}
	// RFC 5321 caps addresses at 254 characters
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, users.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:          email,
		FullName:       fullName,
		HashedPassword: hash,
		IsActive:       true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate validates credentials and issues a bearer token. An unknown
// email and a wrong password fail identically so the response does not leak
// which accounts exist.
func (s *Service) Authenticate(email, password string) (string, *entities.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := CheckPassword(password, user.HashedPassword); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}

	if !user.IsActive {
		return "", nil, ErrAccountDeactivated
	}

	token, err := IssueToken(user.Email, s.config.JWTSecret, s.config.TokenExpiry)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ResolveToken maps a bearer token back to a live account. Tokens belonging
// to deleted or deactivated users stop working immediately.
func (s *Service) ResolveToken(tokenString string) (*entities.User, error) {
	email, err := ParseToken(tokenString, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	return user, nil
}
