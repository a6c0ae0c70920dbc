package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// pgStore persists usage in the usage table. All reads lock the row FOR
// UPDATE so concurrent consumes cannot both pass the limit check.
type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	return s.withTx(ctx, func(tx *sql.Tx) (Usage, error) {
		return s.lockAndEnsure(ctx, tx, userID)
	})
}

func (s *pgStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if n <= 0 {
		return s.EnsurePeriod(ctx, userID)
	}
	return s.withTx(ctx, func(tx *sql.Tx) (Usage, error) {
		u, err := s.lockAndEnsure(ctx, tx, userID)
		if err != nil {
			return Usage{}, err
		}
		if u.Used+n > u.Limit {
			return Usage{}, ErrLimitReached
		}
		u.Used += n
		if _, err := tx.ExecContext(ctx, `
UPDATE usage SET used = $1 WHERE user_id = $2`, u.Used, userID); err != nil {
			return Usage{}, err
		}
		return u, nil
	})
}

func (s *pgStore) Reset(ctx context.Context, userID string) (Usage, error) {
	return s.withTx(ctx, func(tx *sql.Tx) (Usage, error) {
		u := defaultUsage()
		u.ResetsAt = time.Now().UTC().Add(periodLength)
		if _, err := tx.ExecContext(ctx, `
INSERT INTO usage (user_id, plan, limit_amount, used, resets_at)
VALUES ($1, $2, $3, 0, $4)
ON CONFLICT (user_id) DO UPDATE SET used = 0, resets_at = EXCLUDED.resets_at`,
			userID, u.Plan, u.Limit, u.ResetsAt); err != nil {
			return Usage{}, err
		}
		return u, nil
	})
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error.
func (s *pgStore) withTx(ctx context.Context, fn func(*sql.Tx) (Usage, error)) (Usage, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	u, err := fn(tx)
	if err != nil {
		tx.Rollback()
		return Usage{}, err
	}
	if err := tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

// lockAndEnsure reads the user's row FOR UPDATE, creating it with defaults
// when absent and rolling an expired window forward.
func (s *pgStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, userID string) (Usage, error) {
	var u Usage
	row := tx.QueryRowContext(ctx, `
SELECT plan, limit_amount, used, resets_at FROM usage WHERE user_id = $1 FOR UPDATE`, userID)
	err := row.Scan(&u.Plan, &u.Limit, &u.Used, &u.ResetsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			u = defaultUsage()
			if _, err = tx.ExecContext(ctx, `
INSERT INTO usage (user_id, plan, limit_amount, used, resets_at) VALUES ($1, $2, $3, $4, $5)`,
				userID, u.Plan, u.Limit, u.Used, u.ResetsAt); err != nil {
				return Usage{}, err
			}
			return u, nil
		}
		return Usage{}, err
	}

	now := time.Now().UTC()
	if !now.Before(u.ResetsAt) {
		u.Used = 0
		u.ResetsAt = now.Add(periodLength)
		if _, err = tx.ExecContext(ctx, `
UPDATE usage SET used = $1, resets_at = $2 WHERE user_id = $3`, u.Used, u.ResetsAt, userID); err != nil {
			return Usage{}, err
		}
	}
	return u, nil
}
