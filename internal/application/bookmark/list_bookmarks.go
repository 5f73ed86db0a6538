package bookmark

import (
	"context"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
)

// ListBookmarks returns the caller's bookmarks, most recently updated first.
type ListBookmarks struct {
	bookmarks ports.BookmarkRepository
}

// NewListBookmarks builds the use case.
func NewListBookmarks(bookmarks ports.BookmarkRepository) *ListBookmarks {
	return &ListBookmarks{bookmarks: bookmarks}
}

// Execute lists bookmarks for userID.
func (uc *ListBookmarks) Execute(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	return uc.bookmarks.List(ctx, userID)
}
