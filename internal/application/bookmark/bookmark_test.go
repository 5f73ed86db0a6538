package bookmark

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/uiscraper/backend/internal/domain/errors"
	"github.com/uiscraper/backend/internal/infrastructure/persistence/memory"
)

func TestParseAction(t *testing.T) {
	for in, want := range map[string]Action{"": ActionCreate, "create": ActionCreate, "UPDATE": ActionUpdate, " delete ": ActionDelete} {
		got, err := ParseAction(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseAction("archive")
	assert.ErrorIs(t, err, domerrors.ErrValidation)
}

func TestSaveBookmark_CreateUpserts(t *testing.T) {
	store := memory.NewStore()
	uc := NewSaveBookmark(store.Bookmarks())
	ctx := context.Background()

	first, err := uc.Execute(ctx, SaveBookmarkInput{UserID: "u1", Action: ActionCreate, URL: "https://example.com/a"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", first.Bookmark.Title)

	second, err := uc.Execute(ctx, SaveBookmarkInput{UserID: "u1", Action: ActionCreate, URL: "https://example.com/a", Title: "Example"})
	require.NoError(t, err)
	assert.Equal(t, first.Bookmark.ID, second.Bookmark.ID)
	assert.Equal(t, "Example", second.Bookmark.Title)

	list, err := NewListBookmarks(store.Bookmarks()).Execute(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other, err := NewListBookmarks(store.Bookmarks()).Execute(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSaveBookmark_CreateValidation(t *testing.T) {
	uc := NewSaveBookmark(memory.NewStore().Bookmarks())
	for _, u := range []string{"", "not a url", "/relative/path"} {
		_, err := uc.Execute(context.Background(), SaveBookmarkInput{UserID: "u1", URL: u})
		assert.ErrorIs(t, err, domerrors.ErrValidation, u)
	}
	_, err := uc.Execute(context.Background(), SaveBookmarkInput{URL: "https://example.com"})
	assert.ErrorIs(t, err, domerrors.ErrUnauthenticated)
}

func TestSaveBookmark_Update(t *testing.T) {
	store := memory.NewStore()
	uc := NewSaveBookmark(store.Bookmarks())
	ctx := context.Background()
	created, err := uc.Execute(ctx, SaveBookmarkInput{UserID: "u1", URL: "https://example.com"})
	require.NoError(t, err)
	id := created.Bookmark.ID

	updated, err := uc.Execute(ctx, SaveBookmarkInput{UserID: "u1", Action: ActionUpdate, ID: &id, Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Bookmark.Title)

	_, err = uc.Execute(ctx, SaveBookmarkInput{UserID: "u2", Action: ActionUpdate, ID: &id, Title: "x"})
	assert.ErrorIs(t, err, domerrors.ErrBookmarkNotFound)
	_, err = uc.Execute(ctx, SaveBookmarkInput{UserID: "u1", Action: ActionUpdate, Title: "x"})
	assert.ErrorIs(t, err, domerrors.ErrValidation)
}

func TestSaveBookmark_Delete(t *testing.T) {
	store := memory.NewStore()
	uc := NewSaveBookmark(store.Bookmarks())
	ctx := context.Background()
	a, err := uc.Execute(ctx, SaveBookmarkInput{UserID: "u1", URL: "https://a.example"})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, SaveBookmarkInput{UserID: "u1", URL: "https://b.example"})
	require.NoError(t, err)

	id := a.Bookmark.ID
	_, err = uc.Execute(ctx, SaveBookmarkInput{UserID: "u2", Action: ActionDelete, ID: &id})
	assert.ErrorIs(t, err, domerrors.ErrBookmarkNotFound)

	res, err := uc.Execute(ctx, SaveBookmarkInput{UserID: "u1", Action: ActionDelete, ID: &id})
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	res, err = uc.Execute(ctx, SaveBookmarkInput{UserID: "u1", Action: ActionDelete, URL: "https://b.example"})
	require.NoError(t, err)
	assert.True(t, res.Deleted)

	missing := uuid.New()
	_, err = uc.Execute(ctx, SaveBookmarkInput{UserID: "u1", Action: ActionDelete, ID: &missing})
	assert.ErrorIs(t, err, domerrors.ErrBookmarkNotFound)
	_, err = uc.Execute(ctx, SaveBookmarkInput{UserID: "u1", Action: ActionDelete})
	assert.ErrorIs(t, err, domerrors.ErrValidation)
}
