package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bookmarkapi/bookmark-api/internal/model"
)

// MemoryUserRepository is a process-local user store for development and tests.
// Values are copied in and out so callers never share records with the store.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]model.User
	byEmail map[string]int64
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    make(map[int64]model.User),
		byEmail: make(map[string]int64),
	}
}

// Create inserts a user; the email check and insert happen under one lock.
func (r *MemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return ErrDuplicateEmail
	}

	r.nextID++
	now := time.Now().UTC()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = copyUser(*user)
	r.byEmail[user.Email] = user.ID
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := copyUser(r.byID[id])
	return &u, nil
}

// GetByID retrieves a user by their ID.
func (r *MemoryUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	u = copyUser(u)
	return &u, nil
}

// Update writes the mutable profile fields of an existing user.
func (r *MemoryUserRepository) Update(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if owner, taken := r.byEmail[user.Email]; taken && owner != user.ID {
		return ErrDuplicateEmail
	}

	delete(r.byEmail, existing.Email)
	existing.Email = user.Email
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.UpdatedAt = time.Now().UTC()

	r.byID[user.ID] = copyUser(existing)
	r.byEmail[existing.Email] = user.ID
	user.UpdatedAt = existing.UpdatedAt
	return nil
}

// Delete removes a user and reports ErrUserNotFound if absent.
func (r *MemoryUserRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, u.Email)
	return nil
}

// MemoryBookmarkRepository is a process-local bookmark store for development and tests.
type MemoryBookmarkRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]model.Bookmark
}

// NewMemoryBookmarkRepository creates an empty MemoryBookmarkRepository.
func NewMemoryBookmarkRepository() *MemoryBookmarkRepository {
	return &MemoryBookmarkRepository{byID: make(map[int64]model.Bookmark)}
}

// Create inserts a new bookmark and sets the generated ID and timestamps.
func (r *MemoryBookmarkRepository) Create(ctx context.Context, b *model.Bookmark) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	b.ID = r.nextID
	b.CreatedAt = now
	b.UpdatedAt = now

	r.byID[b.ID] = copyBookmark(*b)
	return nil
}

// GetByID retrieves a bookmark by ID regardless of owner.
func (r *MemoryBookmarkRepository) GetByID(ctx context.Context, id int64) (*model.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return nil, ErrBookmarkNotFound
	}
	b = copyBookmark(b)
	return &b, nil
}

// ListByUser retrieves all bookmarks of a user, most recently created first.
func (r *MemoryBookmarkRepository) ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	bookmarks := []model.Bookmark{}
	for _, b := range r.byID {
		if b.UserID == userID {
			bookmarks = append(bookmarks, copyBookmark(b))
		}
	}
	sort.Slice(bookmarks, func(i, j int) bool { return bookmarks[i].ID > bookmarks[j].ID })
	return bookmarks, nil
}

// Update writes title, description and link of a bookmark owned by b.UserID.
func (r *MemoryBookmarkRepository) Update(ctx context.Context, b *model.Bookmark) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[b.ID]
	if !ok || existing.UserID != b.UserID {
		return ErrBookmarkNotFound
	}

	existing.Title = b.Title
	existing.Description = b.Description
	existing.Link = b.Link
	existing.UpdatedAt = time.Now().UTC()

	r.byID[b.ID] = copyBookmark(existing)
	b.UpdatedAt = existing.UpdatedAt
	return nil
}

// Delete removes a bookmark owned by userID.
func (r *MemoryBookmarkRepository) Delete(ctx context.Context, userID, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.byID[id]
	if !ok || b.UserID != userID {
		return ErrBookmarkNotFound
	}
	delete(r.byID, id)
	return nil
}

func copyUser(u model.User) model.User {
	u.FirstName = copyString(u.FirstName)
	u.LastName = copyString(u.LastName)
	return u
}

func copyBookmark(b model.Bookmark) model.Bookmark {
	b.Description = copyString(b.Description)
	return b
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
