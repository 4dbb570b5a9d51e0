package models

import "time"

// PlanItemType distinguishes study chunks from revision follow-ups.
type PlanItemType string

const (
	PlanItemStudy    PlanItemType = "study"
	PlanItemRevision PlanItemType = "revision"
)

// GeneratePlanRequest tunes a plan generation run. All fields are
// optional; omitted values fall back to server configuration.
type GeneratePlanRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
}

// PlanSummary wraps a generated plan with aggregate totals.
type PlanSummary struct {
	Items              []PlanItem `json:"items"`
	TotalStudyHours    float64    `json:"total_study_hours"`
	TotalRevisionHours float64    `json:"total_revision_hours"`
	GeneratedAt        time.Time  `json:"generated_at"`
}

// PlanItem is one scheduled session in a generated study plan.
type PlanItem struct {
	ID          string       `db:"id" json:"id"`
	UserID      string       `db:"user_id" json:"user_id"`
	SubjectID   string       `db:"subject_id" json:"subject_id"`
	SubjectName string       `db:"subject_name" json:"subject_name"`
	Date        time.Time    `db:"date" json:"date"`
	Hours       float64      `db:"hours" json:"hours"`
	Type        PlanItemType `db:"type" json:"type"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}
