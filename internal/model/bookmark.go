package model

import "time"

// Bookmark represents a saved link owned by a single user.
type Bookmark struct {
	ID          int64
	UserID      int64
	Title       string
	Description *string
	Link        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateBookmarkRequest represents a bookmark creation request.
type CreateBookmarkRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Link        string  `json:"link" validate:"required,max=2048"`
}

// EditBookmarkRequest is a partial bookmark update; nil fields are left unchanged.
type EditBookmarkRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Link        *string `json:"link" validate:"omitempty,min=1,max=2048"`
}

// BookmarkResponse represents a bookmark in API responses.
type BookmarkResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse converts a Bookmark to its API representation.
func (b *Bookmark) ToResponse() BookmarkResponse {
	return BookmarkResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		Title:       b.Title,
		Description: b.Description,
		Link:        b.Link,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
