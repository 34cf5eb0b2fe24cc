package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookmarkapi/bookmark-api/internal/model"
	"github.com/bookmarkapi/bookmark-api/internal/repository"
)

// BookmarkService handles bookmark operations scoped to their owner.
type BookmarkService struct {
	repo BookmarkStore
}

// NewBookmarkService creates a new BookmarkService.
func NewBookmarkService(repo BookmarkStore) *BookmarkService {
	return &BookmarkService{repo: repo}
}

// CreateBookmark creates a bookmark owned by userID.
func (s *BookmarkService) CreateBookmark(ctx context.Context, userID int64, req model.CreateBookmarkRequest) (model.BookmarkResponse, error) {
	b := model.Bookmark{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
	}

	if err := s.repo.Create(ctx, &b); err != nil {
		return model.BookmarkResponse{}, fmt.Errorf("create bookmark: %w", err)
	}

	return b.ToResponse(), nil
}

// ListBookmarks returns the bookmarks owned by userID.
func (s *BookmarkService) ListBookmarks(ctx context.Context, userID int64) ([]model.BookmarkResponse, error) {
	bookmarks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}

	result := make([]model.BookmarkResponse, len(bookmarks))
	for i := range bookmarks {
		result[i] = bookmarks[i].ToResponse()
	}
	return result, nil
}

// GetBookmark returns a bookmark owned by userID. A bookmark owned by someone
// else is reported as not found.
func (s *BookmarkService) GetBookmark(ctx context.Context, userID, id int64) (model.BookmarkResponse, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookmarkNotFound) {
			return model.BookmarkResponse{}, ErrNotFound
		}
		return model.BookmarkResponse{}, fmt.Errorf("get bookmark: %w", err)
	}
	if b.UserID != userID {
		return model.BookmarkResponse{}, ErrNotFound
	}

	return b.ToResponse(), nil
}

// EditBookmark applies a partial update to a bookmark owned by userID.
func (s *BookmarkService) EditBookmark(ctx context.Context, userID, id int64, req model.EditBookmarkRequest) (model.BookmarkResponse, error) {
	b, err := s.owned(ctx, userID, id)
	if err != nil {
		return model.BookmarkResponse{}, err
	}

	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Description != nil {
		b.Description = req.Description
	}
	if req.Link != nil {
		b.Link = *req.Link
	}

	if err := s.repo.Update(ctx, b); err != nil {
		if errors.Is(err, repository.ErrBookmarkNotFound) {
			return model.BookmarkResponse{}, ErrForbidden
		}
		return model.BookmarkResponse{}, fmt.Errorf("update bookmark: %w", err)
	}

	return b.ToResponse(), nil
}

// DeleteBookmark deletes a bookmark owned by userID.
func (s *BookmarkService) DeleteBookmark(ctx context.Context, userID, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrBookmarkNotFound) {
			return ErrForbidden
		}
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

// owned loads a bookmark for mutation; missing and foreign bookmarks are both forbidden.
func (s *BookmarkService) owned(ctx context.Context, userID, id int64) (*model.Bookmark, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookmarkNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}
