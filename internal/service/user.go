package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookmarkapi/bookmark-api/internal/model"
	"github.com/bookmarkapi/bookmark-api/internal/repository"
)

// UserService handles profile reads and edits for the authenticated user.
type UserService struct {
	repo UserStore
}

// NewUserService creates a new UserService.
func NewUserService(repo UserStore) *UserService {
	return &UserService{repo: repo}
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *UserService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrNotFound
		}
		return model.UserResponse{}, fmt.Errorf("get user: %w", err)
	}

	return user.ToResponse(), nil
}

// EditUser applies a partial profile update.
func (s *UserService) EditUser(ctx context.Context, userID int64, req model.EditUserRequest) (model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrNotFound
		}
		return model.UserResponse{}, fmt.Errorf("get user: %w", err)
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.UserResponse{}, conflictError(err)
		case errors.Is(err, repository.ErrUserNotFound):
			return model.UserResponse{}, ErrNotFound
		}
		return model.UserResponse{}, fmt.Errorf("update user: %w", err)
	}

	return user.ToResponse(), nil
}
