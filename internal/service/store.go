package service

import (
	"context"

	"github.com/bookmarkapi/bookmark-api/internal/model"
)

// UserStore is the credential store: user records keyed by id and unique email.
// Create must report repository.ErrDuplicateEmail when the email is taken,
// including when it loses a race with a concurrent insert.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// BookmarkStore persists bookmarks keyed by owner.
type BookmarkStore interface {
	Create(ctx context.Context, b *model.Bookmark) error
	GetByID(ctx context.Context, id int64) (*model.Bookmark, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error)
	Update(ctx context.Context, b *model.Bookmark) error
	Delete(ctx context.Context, userID, id int64) error
}
