package bookmark

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
	domerrors "github.com/uiscraper/backend/internal/domain/errors"
)

// Action selects what SaveBookmark does with the request.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ParseAction maps the request's action field; empty means create.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case "", ActionCreate:
		return ActionCreate, nil
	case ActionUpdate:
		return ActionUpdate, nil
	case ActionDelete:
		return ActionDelete, nil
	default:
		return "", fmt.Errorf("%w: unknown bookmark action %q", domerrors.ErrValidation, s)
	}
}

// SaveBookmarkInput is one bookmark mutation from the extension. ID is required for update; delete
// accepts either ID or URL.
type SaveBookmarkInput struct {
	UserID string
	Action Action
	ID     *uuid.UUID
	URL    string
	Title  string
}

// SaveBookmarkResult carries the stored bookmark for create/update, or Deleted for delete.
type SaveBookmarkResult struct {
	Bookmark *domain.Bookmark
	Deleted  bool
}

// SaveBookmark creates (upserting on URL), retitles, or deletes a bookmark.
type SaveBookmark struct {
	bookmarks ports.BookmarkRepository
	now       func() time.Time
}

// NewSaveBookmark builds the use case.
func NewSaveBookmark(bookmarks ports.BookmarkRepository) *SaveBookmark {
	return &SaveBookmark{bookmarks: bookmarks, now: time.Now}
}

// Execute applies the action. Bookmarks of other users are reported as not found.
func (uc *SaveBookmark) Execute(ctx context.Context, input SaveBookmarkInput) (*SaveBookmarkResult, error) {
	if input.UserID == "" {
		return nil, domerrors.ErrUnauthenticated
	}
	switch input.Action {
	case ActionUpdate:
		return uc.update(ctx, input)
	case ActionDelete:
		return uc.delete(ctx, input)
	default:
		return uc.create(ctx, input)
	}
}

func (uc *SaveBookmark) create(ctx context.Context, input SaveBookmarkInput) (*SaveBookmarkResult, error) {
	rawURL, err := validURL(input.URL)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = rawURL
	}
	now := uc.now()
	b, err := uc.bookmarks.Upsert(ctx, &domain.Bookmark{
		ID:        uuid.New(),
		UserID:    input.UserID,
		URL:       rawURL,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("upsert bookmark: %w", err)
	}
	return &SaveBookmarkResult{Bookmark: b}, nil
}

func (uc *SaveBookmark) update(ctx context.Context, input SaveBookmarkInput) (*SaveBookmarkResult, error) {
	if input.ID == nil {
		return nil, fmt.Errorf("%w: id is required for update", domerrors.ErrValidation)
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required for update", domerrors.ErrValidation)
	}
	b, err := uc.bookmarks.UpdateTitle(ctx, input.UserID, *input.ID, title)
	if err != nil {
		return nil, fmt.Errorf("update bookmark: %w", err)
	}
	if b == nil {
		return nil, domerrors.ErrBookmarkNotFound
	}
	return &SaveBookmarkResult{Bookmark: b}, nil
}

func (uc *SaveBookmark) delete(ctx context.Context, input SaveBookmarkInput) (*SaveBookmarkResult, error) {
	var (
		deleted bool
		err     error
	)
	switch {
	case input.ID != nil:
		deleted, err = uc.bookmarks.DeleteByID(ctx, input.UserID, *input.ID)
	case strings.TrimSpace(input.URL) != "":
		deleted, err = uc.bookmarks.DeleteByURL(ctx, input.UserID, strings.TrimSpace(input.URL))
	default:
		return nil, fmt.Errorf("%w: id or url is required for delete", domerrors.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("delete bookmark: %w", err)
	}
	if !deleted {
		return nil, domerrors.ErrBookmarkNotFound
	}
	return &SaveBookmarkResult{Deleted: true}, nil
}

func validURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if raw == "" || err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: url must be absolute", domerrors.ErrValidation)
	}
	return raw, nil
}
