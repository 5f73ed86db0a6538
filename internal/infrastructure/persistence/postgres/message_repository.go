package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
)

const (
	insertMessageSQL  = `INSERT INTO messages (id, project_id, role, type, content, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	insertFragmentSQL = `INSERT INTO fragments (id, message_id, title, sandbox_url, files, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	listMessagesSQL   = `
SELECT m.id, m.project_id, m.role, m.type, m.content, m.created_at, m.updated_at,
       f.id, f.title, f.sandbox_url, f.files, f.created_at, f.updated_at
FROM messages m
LEFT JOIN fragments f ON f.message_id = m.id
WHERE m.project_id = $1
ORDER BY m.created_at, m.id`
	getFragmentSQL = `
SELECT f.id, f.message_id, f.title, f.sandbox_url, f.files, f.created_at, f.updated_at
FROM fragments f
JOIN messages m ON m.id = f.message_id
JOIN projects p ON p.id = m.project_id
WHERE f.id = $1 AND p.user_id = $2`
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	_, err := r.pool.Exec(ctx, insertMessageSQL, m.ID, m.ProjectID.UUID, string(m.Role), string(m.Type), m.Content, m.CreatedAt, m.UpdatedAt)
	return err
}

func (r *MessageRepository) CreateWithFragment(ctx context.Context, m *domain.Message, f *domain.Fragment) error {
	files, err := json.Marshal(nonNilFiles(f.Files))
	if err != nil {
		return fmt.Errorf("encode fragment files: %w", err)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertMessageSQL, m.ID, m.ProjectID.UUID, string(m.Role), string(m.Type), m.Content, m.CreatedAt, m.UpdatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, insertFragmentSQL, f.ID, m.ID, f.Title, f.SandboxURL, string(files), f.CreatedAt, f.UpdatedAt)
		return err
	})
}

func (r *MessageRepository) ListByProject(ctx context.Context, projectID domain.ProjectID) ([]*domain.Message, error) {
	rows, err := r.pool.Query(ctx, listMessagesSQL, projectID.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*domain.Message
	for rows.Next() {
		var (
			m                  domain.Message
			role, typ          string
			fragID             *uuid.UUID
			title, sandboxURL  *string
			files              []byte
			fCreated, fUpdated *time.Time
		)
		if err := rows.Scan(&m.ID, &m.ProjectID.UUID, &role, &typ, &m.Content, &m.CreatedAt, &m.UpdatedAt,
			&fragID, &title, &sandboxURL, &files, &fCreated, &fUpdated); err != nil {
			return nil, err
		}
		m.Role = domain.MessageRole(role)
		m.Type = domain.MessageType(typ)
		if fragID != nil {
			f := &domain.Fragment{ID: *fragID, MessageID: m.ID, Title: deref(title), SandboxURL: deref(sandboxURL)}
			if fCreated != nil {
				f.CreatedAt = *fCreated
			}
			if fUpdated != nil {
				f.UpdatedAt = *fUpdated
			}
			if f.Files, err = decodeFiles(files); err != nil {
				return nil, err
			}
			m.Fragment = f
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *MessageRepository) GetFragment(ctx context.Context, userID string, fragmentID uuid.UUID) (*domain.Fragment, error) {
	var (
		f     domain.Fragment
		files []byte
	)
	err := r.pool.QueryRow(ctx, getFragmentSQL, fragmentID, userID).
		Scan(&f.ID, &f.MessageID, &f.Title, &f.SandboxURL, &files, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if f.Files, err = decodeFiles(files); err != nil {
		return nil, err
	}
	return &f, nil
}

func decodeFiles(raw []byte) (map[string]string, error) {
	files := map[string]string{}
	if len(raw) == 0 {
		return files, nil
	}
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("decode fragment files: %w", err)
	}
	return files, nil
}

func nonNilFiles(files map[string]string) map[string]string {
	if files == nil {
		return map[string]string{}
	}
	return files
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ ports.MessageRepository = (*MessageRepository)(nil)
