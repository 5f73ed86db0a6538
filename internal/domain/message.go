package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	RoleUser      MessageRole = "USER"
	RoleAssistant MessageRole = "ASSISTANT"
)

type MessageType string

const (
	MessageResult MessageType = "RESULT"
	MessageError  MessageType = "ERROR"
)

// Message is one entry of a project's append-only log.
type Message struct {
	ID        uuid.UUID
	ProjectID ProjectID
	Role      MessageRole
	Type      MessageType
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	Fragment  *Fragment
}

// Fragment is the generated code bundle attached to a successful assistant message. Immutable once written.
type Fragment struct {
	ID         uuid.UUID
	MessageID  uuid.UUID
	Title      string
	SandboxURL string
	Files      map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
