package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/devconnector/devconnector-go/internal/avatar"
	"github.com/devconnector/devconnector-go/internal/crypto"
	"github.com/devconnector/devconnector-go/internal/model"
	"github.com/devconnector/devconnector-go/internal/repository"
	"github.com/google/uuid"
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// AuthService registers users and issues bearer tokens for verified credentials.
type AuthService struct {
	users             UserStore
	hasher            crypto.Hasher
	tokens            crypto.TokenSigner
	minPasswordLength int
	now               func() time.Time

	// decoyHash is verified against when the email is unknown so both login failures cost the same.
	decoyHash func() (string, error)
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher crypto.Hasher, tokens crypto.TokenSigner, minPasswordLength int) *AuthService {
	return &AuthService{
		users:             users,
		hasher:            hasher,
		tokens:            tokens,
		minPasswordLength: minPasswordLength,
		now:               time.Now,
		decoyHash: sync.OnceValues(func() (string, error) {
			return hasher.Hash(uuid.NewString())
		}),
	}
}

// Register validates the request, hashes the password and stores a new user.
// The returned response never carries the password hash.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)

	if err := req.Validate(s.minPasswordLength); err != nil {
		return model.UserResponse{}, newValidationError(err)
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return model.UserResponse{}, ErrDuplicateIdentity
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.UserResponse{}, fmt.Errorf("looking up email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.UserResponse{}, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Avatar:       avatar.URL(req.Email),
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrDuplicateIdentity
		}
		return model.UserResponse{}, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return model.NewUserResponse(user), nil
}

// Authenticate checks the credentials and returns a signed token bound to the user id.
// Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	req.Email = normalizeEmail(req.Email)

	if err := req.Validate(); err != nil {
		return model.TokenResponse{}, newValidationError(err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.burnDecoy(req.Password)
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, fmt.Errorf("looking up email: %w", err)
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		slog.ErrorContext(ctx, "stored password hash cannot be decoded", "user_id", user.ID, "error", err)
		return model.TokenResponse{}, ErrInvalidCredentials
	}
	if !match {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Sign(user.ID)
	if err != nil {
		return model.TokenResponse{}, fmt.Errorf("signing token: %w", err)
	}

	return model.TokenResponse{Token: token}, nil
}

// CurrentUser returns the public data of the authenticated user.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return model.NewUserResponse(user), nil
}

func (s *AuthService) burnDecoy(password string) {
	hash, err := s.decoyHash()
	if err != nil {
		return
	}
	_, _ = s.hasher.Verify(password, hash)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
