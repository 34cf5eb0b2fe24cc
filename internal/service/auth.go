package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bookmarkapi/bookmark-api/internal/crypto"
	"github.com/bookmarkapi/bookmark-api/internal/model"
	"github.com/bookmarkapi/bookmark-api/internal/repository"
	"github.com/bookmarkapi/bookmark-api/internal/validation"
)

// AuthOptions tunes signup input rules.
type AuthOptions struct {
	MinPasswordLength int
}

// AuthService handles signup, signin and token authentication.
// It is the only writer of new users and the only path that issues tokens.
type AuthService struct {
	repo   UserStore
	hasher *crypto.PasswordHasher
	tokens *crypto.TokenManager
	opts   AuthOptions
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo UserStore, hasher *crypto.PasswordHasher, tokens *crypto.TokenManager, opts AuthOptions) *AuthService {
	if opts.MinPasswordLength < 1 {
		opts.MinPasswordLength = 1
	}
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		opts:   opts,
	}
}

// Signup creates a new account and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, email, password string) (model.AuthResponse, error) {
	if err := s.validateCredentials(email, password); err != nil {
		return model.AuthResponse{}, err
	}

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return model.AuthResponse{}, conflictError(nil)
	case !errors.Is(err, repository.ErrUserNotFound):
		return model.AuthResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, conflictError(err)
		}
		return model.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}

	return s.respond(user)
}

// Signin authenticates by email and password and returns a token.
// Unknown email and wrong password fail identically.
func (s *AuthService) Signin(ctx context.Context, email, password string) (model.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, authenticationError("invalid credentials", err)
		}
		return model.AuthResponse{}, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return model.AuthResponse{}, authenticationError("invalid credentials", nil)
	}

	return s.respond(user)
}

// Authenticate verifies a bearer token and resolves it to the live user it names.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, crypto.ErrTokenExpired) {
			return model.Principal{}, authenticationError("token expired", err)
		}
		return model.Principal{}, authenticationError("invalid token", err)
	}

	user, err := s.repo.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Principal{}, authenticationError("invalid token", err)
		}
		return model.Principal{}, fmt.Errorf("resolve token subject: %w", err)
	}

	return model.Principal{UserID: user.ID, Email: user.Email}, nil
}

func (s *AuthService) validateCredentials(email, password string) error {
	fields := make(map[string]string)
	if err := validation.Var("email", email, "required,email"); err != nil {
		for k, v := range validation.Fields(err) {
			fields[k] = v
		}
	}
	switch {
	case password == "":
		fields["password"] = "password is required"
	case utf8.RuneCountInString(password) < s.opts.MinPasswordLength:
		fields["password"] = fmt.Sprintf("password must be at least %d characters", s.opts.MinPasswordLength)
	}

	if len(fields) > 0 {
		return validationError(fields)
	}
	return nil
}

func (s *AuthService) respond(user *model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(model.Principal{UserID: user.ID, Email: user.Email})
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}

	return model.AuthResponse{
		AccessToken: token,
		User:        user.ToResponse(),
	}, nil
}
