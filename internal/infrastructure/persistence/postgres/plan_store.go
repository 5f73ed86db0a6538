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
	setPlanSQL = `
INSERT INTO user_plans (user_id, plan, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (user_id) DO UPDATE SET plan = EXCLUDED.plan, updated_at = NOW()`
	getPlanSQL = `SELECT plan FROM user_plans WHERE user_id = $1`
)

type PlanStore struct {
	pool *pgxpool.Pool
}

func NewPlanStore(pool *pgxpool.Pool) *PlanStore {
	return &PlanStore{pool: pool}
}

func (s *PlanStore) SetPlan(ctx context.Context, userID string, plan domain.Plan) error {
	_, err := s.pool.Exec(ctx, setPlanSQL, userID, string(plan))
	return err
}

func (s *PlanStore) GetPlan(ctx context.Context, userID string) (domain.Plan, error) {
	var plan string
	if err := s.pool.QueryRow(ctx, getPlanSQL, userID).Scan(&plan); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PlanFree, nil
		}
		return domain.PlanFree, err
	}
	return domain.ParsePlan(plan), nil
}

var _ ports.PlanStore = (*PlanStore)(nil)
