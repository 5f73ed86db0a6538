package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark is a page the user saved from the extension. Unique per (UserID, URL).
type Bookmark struct {
	ID        uuid.UUID
	UserID    string
	URL       string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
