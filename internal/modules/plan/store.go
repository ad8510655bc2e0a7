// README: Plan store backed by PostgreSQL (travel_plans table).
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Insert persists rec and returns the assigned identifier. The record shape is
// validated before touching the datastore.
func (s *Store) Insert(ctx context.Context, rec *Record) (string, error) {
	if rec.Destination == "" || rec.Days <= 0 || rec.Budget < 0 {
		return "", ErrInvalidRequest
	}

	planData, err := json.Marshal(rec.Plan)
	if err != nil {
		return "", fmt.Errorf("marshal plan data: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(ctx, `
        INSERT INTO travel_plans (
            id, user_id, destination, days, budget, travelers, preferences, plan_data, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id,
		rec.UserID,
		rec.Destination,
		rec.Days,
		rec.Budget,
		rec.Travelers,
		rec.Preferences,
		planData,
		rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, user_id, destination, days, budget, travelers, preferences, plan_data, created_at
        FROM travel_plans
        WHERE id = $1`, id,
	)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return rec, nil
}

// ListByOwner returns the owner's records ordered newest-first.
func (s *Store) ListByOwner(ctx context.Context, userID string) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, user_id, destination, days, budget, travelers, preferences, plan_data, created_at
        FROM travel_plans
        WHERE user_id = $1
        ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM travel_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	var planData []byte
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Destination, &rec.Days, &rec.Budget,
		&rec.Travelers, &rec.Preferences, &planData, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(planData, &rec.Plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan data: %w", err)
	}
	return &rec, nil
}
