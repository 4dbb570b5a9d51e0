package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lumora/studyplan-api/internal/models"
)

// PlanRepository handles persistence for generated study plans.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository creates a new repository instance.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// ReplaceForUser swaps a user's stored plan for the provided items inside
// the given transaction: all or nothing, never a partial plan.
func (r *PlanRepository) ReplaceForUser(ctx context.Context, tx *sqlx.Tx, userID string, items []models.PlanItem) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM plan_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear plan: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		items[i].UserID = userID
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
	}

	const query = `INSERT INTO plan_items (id, user_id, subject_id, subject_name, date, hours, type, created_at) VALUES (:id, :user_id, :subject_id, :subject_name, :date, :hours, :type, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, items); err != nil {
		return fmt.Errorf("insert plan items: %w", err)
	}
	return nil
}

// ListByUser returns the stored plan ordered for display.
func (r *PlanRepository) ListByUser(ctx context.Context, userID string) ([]models.PlanItem, error) {
	const query = `SELECT id, user_id, subject_id, subject_name, date, hours, type, created_at FROM plan_items WHERE user_id = $1 ORDER BY date ASC, type ASC, subject_name ASC`
	var items []models.PlanItem
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list plan items: %w", err)
	}
	return items, nil
}

// BeginTxx starts a transaction for the clear-and-replace swap.
func (r *PlanRepository) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}
