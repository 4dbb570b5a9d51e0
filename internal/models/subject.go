package models

import "time"

// Subject represents one exam subject a learner is preparing for.
type Subject struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	Name           string    `db:"name" json:"name"`
	Difficulty     int       `db:"difficulty" json:"difficulty"`
	ExamDate       time.Time `db:"exam_date" json:"exam_date"`
	EstimatedHours float64   `db:"estimated_hours" json:"estimated_hours"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectCreateRequest is the payload for registering a subject.
type SubjectCreateRequest struct {
	Name           string    `json:"name" validate:"required"`
	Difficulty     int       `json:"difficulty" validate:"required,min=1,max=5"`
	ExamDate       time.Time `json:"exam_date" validate:"required"`
	EstimatedHours float64   `json:"estimated_hours" validate:"gte=0"`
}

// SubjectUpdateRequest is the payload for modifying a subject.
type SubjectUpdateRequest struct {
	Name           string    `json:"name" validate:"required"`
	Difficulty     int       `json:"difficulty" validate:"required,min=1,max=5"`
	ExamDate       time.Time `json:"exam_date" validate:"required"`
	EstimatedHours float64   `json:"estimated_hours" validate:"gte=0"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	UserID    string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
