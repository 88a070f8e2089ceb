package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/mrlokans/hanzi/internal/config"
	"github.com/mrlokans/hanzi/internal/database/users"
	"github.com/mrlokans/hanzi/internal/entities"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUsernameInvalid    = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	ErrTokensDisabled     = errors.New("token issuing is disabled")
)

// UserStore is the user data access the service needs.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string, role entities.UserRole) (*entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

// Service handles account creation and login.
type Service struct {
	users  UserStore
	tokens *TokenManager
	config config.Auth
}

// NewService creates a new authentication service. tokens may be nil when
// auth is disabled; Login then fails with ErrTokensDisabled.
func NewService(users UserStore, tokens *TokenManager, cfg config.Auth) *Service {
	return &Service{users: users, tokens: tokens, config: cfg}
}

// CreateUser validates and stores a new account.
func (s *Service) CreateUser(ctx context.Context, username, password string, role entities.UserRole) (*entities.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	hash, err := HashPassword(password, s.config.MinPasswordLength, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.CreateUser(ctx, username, hash, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *entities.User `json:"user"`
}

// Login checks the credentials and issues an access token. Unknown users and
// wrong passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if s.tokens == nil {
		return nil, ErrTokensDisabled
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err == nil {
		user.LastLoginAt = &now
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
