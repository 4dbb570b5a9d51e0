package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lumora/studyplan-api/internal/models"
)

// SessionRepository handles persistence for completed study sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new repository instance.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create records a completed session.
func (r *SessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO study_sessions (id, user_id, subject_id, date, hours, notes, created_at) VALUES (:id, :user_id, :subject_id, :date, :hours, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create study session: %w", err)
	}
	return nil
}

// ListByUser returns a user's logged sessions, most recent first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]models.StudySession, error) {
	const query = `SELECT id, user_id, subject_id, date, hours, notes, created_at FROM study_sessions WHERE user_id = $1 ORDER BY date DESC, created_at DESC`
	var sessions []models.StudySession
	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}
	return sessions, nil
}

// SumHoursBySubject aggregates completed hours per subject for a user.
func (r *SessionRepository) SumHoursBySubject(ctx context.Context, userID string) (map[string]float64, error) {
	const query = `SELECT subject_id, COALESCE(SUM(hours), 0) AS total FROM study_sessions WHERE user_id = $1 GROUP BY subject_id`
	rows := []struct {
		SubjectID string  `db:"subject_id"`
		Total     float64 `db:"total"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("sum session hours: %w", err)
	}

	totals := make(map[string]float64, len(rows))
	for _, row := range rows {
		totals[row.SubjectID] = row.Total
	}
	return totals, nil
}
