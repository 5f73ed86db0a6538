package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/common"

	"github.com/uiscraper/backend/internal/application/credits"
	"github.com/uiscraper/backend/internal/application/ports"
)

const (
	openUsageSQL  = `INSERT INTO usage (key, points, expire) VALUES ($1, 0, $2) ON CONFLICT (key) DO NOTHING`
	lockUsageSQL  = `SELECT points, expire FROM usage WHERE key = $1 FOR UPDATE`
	saveUsageSQL  = `UPDATE usage SET points = $2, expire = $3 WHERE key = $1`
	peekUsageSQL  = `SELECT points, expire FROM usage WHERE key = $1`
	resetUsageSQL = `DELETE FROM usage WHERE key = $1`
	pruneUsageSQL = `DELETE FROM usage WHERE expire < $1`
	defaultPrefix = "credits"
)

// UsageStore is a limiter.Store over the usage table. Each increment is a row-locked
// read-modify-write, and the stored count never exceeds the rate limit: a request that would push it
// over is reported as reached without being recorded.
type UsageStore struct {
	pool   *pgxpool.Pool
	prefix string
	now    func() time.Time
}

// NewUsageStore returns a store; an empty prefix uses "credits".
func NewUsageStore(pool *pgxpool.Pool, prefix string) *UsageStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &UsageStore{pool: pool, prefix: prefix, now: time.Now}
}

func (s *UsageStore) key(k string) string {
	return s.prefix + ":" + k
}

// Get implements limiter.Store.
func (s *UsageStore) Get(ctx context.Context, key string, rate limiter.Rate) (limiter.Context, error) {
	return s.Increment(ctx, key, 1, rate)
}

// Increment implements limiter.Store.
func (s *UsageStore) Increment(ctx context.Context, key string, count int64, rate limiter.Rate) (limiter.Context, error) {
	now := s.now()
	k := s.key(key)
	var lctx limiter.Context
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, openUsageSQL, k, now.Add(rate.Period)); err != nil {
			return err
		}
		var (
			points int64
			expire time.Time
		)
		if err := tx.QueryRow(ctx, lockUsageSQL, k).Scan(&points, &expire); err != nil {
			return err
		}
		if !expire.After(now) {
			points = 0
			expire = now.Add(rate.Period)
		}
		requested := points + count
		if requested <= rate.Limit {
			points = requested
		}
		if _, err := tx.Exec(ctx, saveUsageSQL, k, points, expire); err != nil {
			return err
		}
		lctx = common.GetContextFromState(now, rate, expire, requested)
		return nil
	})
	if err != nil {
		return limiter.Context{}, err
	}
	return lctx, nil
}

// CapsAtLimit reports that refused increments are never recorded.
func (s *UsageStore) CapsAtLimit() bool { return true }

// Peek implements limiter.Store. An expired window reads as empty.
func (s *UsageStore) Peek(ctx context.Context, key string, rate limiter.Rate) (limiter.Context, error) {
	now := s.now()
	var (
		points int64
		expire time.Time
	)
	err := s.pool.QueryRow(ctx, peekUsageSQL, s.key(key)).Scan(&points, &expire)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return limiter.Context{}, err
	}
	if errors.Is(err, pgx.ErrNoRows) || !expire.After(now) {
		points = 0
		expire = now.Add(rate.Period)
	}
	return common.GetContextFromState(now, rate, expire, points), nil
}

// Reset implements limiter.Store.
func (s *UsageStore) Reset(ctx context.Context, key string, rate limiter.Rate) (limiter.Context, error) {
	now := s.now()
	if _, err := s.pool.Exec(ctx, resetUsageSQL, s.key(key)); err != nil {
		return limiter.Context{}, err
	}
	return common.GetContextFromState(now, rate, now.Add(rate.Period), 0), nil
}

// DeleteExpiredUsage implements ports.UsagePruner.
func (s *UsageStore) DeleteExpiredUsage(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, pruneUsageSQL, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var (
	_ limiter.Store       = (*UsageStore)(nil)
	_ ports.UsagePruner   = (*UsageStore)(nil)
	_ credits.CappedStore = (*UsageStore)(nil)
)
