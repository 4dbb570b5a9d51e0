package models

import "time"

// StudySession records hours the learner actually completed for a subject.
type StudySession struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Date      time.Time `db:"date" json:"date"`
	Hours     float64   `db:"hours" json:"hours"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SessionCreateRequest is the payload for logging a completed session.
type SessionCreateRequest struct {
	SubjectID string    `json:"subject_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Hours     float64   `json:"hours" validate:"required,gt=0"`
	Notes     string    `json:"notes"`
}

// SubjectProgress aggregates logged hours against the subject estimate.
type SubjectProgress struct {
	SubjectID      string  `json:"subject_id"`
	SubjectName    string  `json:"subject_name"`
	EstimatedHours float64 `json:"estimated_hours"`
	CompletedHours float64 `json:"completed_hours"`
	Percent        float64 `json:"percent"`
}
