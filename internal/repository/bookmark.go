package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bookmarkapi/bookmark-api/internal/model"
)

var ErrBookmarkNotFound = errors.New("bookmark not found")

const bookmarkColumns = `id, user_id, title, description, link, created_at, updated_at`

// BookmarkRepository handles bookmark persistence operations.
type BookmarkRepository struct {
	db *sql.DB
}

// NewBookmarkRepository creates a new BookmarkRepository.
func NewBookmarkRepository(db *sql.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Create inserts a new bookmark and sets the generated ID and timestamps.
func (r *BookmarkRepository) Create(ctx context.Context, b *model.Bookmark) error {
	query := `INSERT INTO bookmarks (user_id, title, description, link, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC().Truncate(time.Second)
	result, err := r.db.ExecContext(ctx, query,
		b.UserID, b.Title, nullString(b.Description), b.Link, now, now,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// GetByID retrieves a bookmark by ID regardless of owner.
func (r *BookmarkRepository) GetByID(ctx context.Context, id int64) (*model.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE id = ?`

	var (
		b    model.Bookmark
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.Title, &desc, &b.Link, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookmarkNotFound
		}
		return nil, err
	}

	b.Description = stringPtr(desc)
	return &b, nil
}

// ListByUser retrieves all bookmarks of a user, most recently created first.
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID int64) ([]model.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE user_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookmarks := []model.Bookmark{}
	for rows.Next() {
		var (
			b    model.Bookmark
			desc sql.NullString
		)
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Title, &desc, &b.Link, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		b.Description = stringPtr(desc)
		bookmarks = append(bookmarks, b)
	}

	return bookmarks, rows.Err()
}

// Update writes title, description and link of a bookmark owned by b.UserID.
// A missing or foreign bookmark reports ErrBookmarkNotFound.
func (r *BookmarkRepository) Update(ctx context.Context, b *model.Bookmark) error {
	query := `UPDATE bookmarks SET title = ?, description = ?, link = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`

	now := time.Now().UTC().Truncate(time.Second)
	result, err := r.db.ExecContext(ctx, query,
		b.Title, nullString(b.Description), b.Link, now, b.ID, b.UserID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrBookmarkNotFound
	}

	b.UpdatedAt = now
	return nil
}

// Delete removes a bookmark owned by userID.
func (r *BookmarkRepository) Delete(ctx context.Context, userID, id int64) error {
	query := `DELETE FROM bookmarks WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBookmarkNotFound
	}

	return nil
}
