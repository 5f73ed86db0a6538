package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
)

const (
	insertProjectSQL = `INSERT INTO projects (id, user_id, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	getProjectSQL    = `SELECT id, user_id, name, created_at, updated_at FROM projects WHERE id = $1 AND user_id = $2`
	listProjectsSQL  = `SELECT id, user_id, name, created_at, updated_at FROM projects WHERE user_id = $1 ORDER BY updated_at DESC, id LIMIT $2 OFFSET $3`
	renameProjectSQL = `UPDATE projects SET name = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	touchProjectSQL  = `UPDATE projects SET updated_at = NOW() WHERE id = $1`
	deleteProjectSQL = `DELETE FROM projects WHERE id = $1 AND user_id = $2`
)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	_, err := r.pool.Exec(ctx, insertProjectSQL, project.ID.UUID, project.UserID, project.Name, project.CreatedAt, project.UpdatedAt)
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, userID string, projectID domain.ProjectID) (*domain.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, getProjectSQL, projectID.UUID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context, userID string, limit, offset int) ([]*domain.Project, error) {
	rows, err := r.pool.Query(ctx, listProjectsSQL, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProjectRepository) Rename(ctx context.Context, userID string, projectID domain.ProjectID, name string) error {
	_, err := r.pool.Exec(ctx, renameProjectSQL, projectID.UUID, userID, name)
	return err
}

func (r *ProjectRepository) Touch(ctx context.Context, projectID domain.ProjectID) error {
	_, err := r.pool.Exec(ctx, touchProjectSQL, projectID.UUID)
	return err
}

// Delete relies on ON DELETE CASCADE for messages and fragments.
func (r *ProjectRepository) Delete(ctx context.Context, userID string, projectID domain.ProjectID) (bool, error) {
	tag, err := r.pool.Exec(ctx, deleteProjectSQL, projectID.UUID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(&p.ID.UUID, &p.UserID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
