package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
)

const (
	upsertBookmarkSQL = `
INSERT INTO bookmarks (id, user_id, url, title, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, url) DO UPDATE SET title = EXCLUDED.title, updated_at = EXCLUDED.updated_at
RETURNING id, user_id, url, title, created_at, updated_at`
	updateBookmarkTitleSQL = `
UPDATE bookmarks SET title = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2
RETURNING id, user_id, url, title, created_at, updated_at`
	deleteBookmarkByIDSQL  = `DELETE FROM bookmarks WHERE id = $1 AND user_id = $2`
	deleteBookmarkByURLSQL = `DELETE FROM bookmarks WHERE url = $1 AND user_id = $2`
	listBookmarksSQL       = `SELECT id, user_id, url, title, created_at, updated_at FROM bookmarks WHERE user_id = $1 ORDER BY updated_at DESC, id`
)

type BookmarkRepository struct {
	pool *pgxpool.Pool
}

func NewBookmarkRepository(pool *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{pool: pool}
}

func (r *BookmarkRepository) Upsert(ctx context.Context, b *domain.Bookmark) (*domain.Bookmark, error) {
	return scanBookmark(r.pool.QueryRow(ctx, upsertBookmarkSQL, b.ID, b.UserID, b.URL, b.Title, b.CreatedAt, b.UpdatedAt))
}

func (r *BookmarkRepository) UpdateTitle(ctx context.Context, userID string, id uuid.UUID, title string) (*domain.Bookmark, error) {
	b, err := scanBookmark(r.pool.QueryRow(ctx, updateBookmarkTitleSQL, id, userID, title))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

func (r *BookmarkRepository) DeleteByID(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteBookmarkByIDSQL, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BookmarkRepository) DeleteByURL(ctx context.Context, userID, url string) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteBookmarkByURLSQL, url, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BookmarkRepository) List(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	rows, err := r.pool.Query(ctx, listBookmarksSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*domain.Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBookmark(row pgx.Row) (*domain.Bookmark, error) {
	var b domain.Bookmark
	if err := row.Scan(&b.ID, &b.UserID, &b.URL, &b.Title, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ ports.BookmarkRepository = (*BookmarkRepository)(nil)
