package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora/studyplan-api/internal/models"
)

func TestPlanReplaceForUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM plan_items").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO plan_items").WillReturnResult(sqlmock.NewResult(2, 2))
	mock.ExpectCommit()

	tx, err := repo.BeginTxx(context.Background())
	require.NoError(t, err)

	items := []models.PlanItem{
		{SubjectID: "s1", SubjectName: "Math", Date: time.Now(), Hours: 2, Type: models.PlanItemStudy},
		{SubjectID: "s1", SubjectName: "Math", Date: time.Now().AddDate(0, 0, 1), Hours: 0.5, Type: models.PlanItemRevision},
	}
	err = repo.ReplaceForUser(context.Background(), tx, "u1", items)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, "u1", items[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanReplaceForUserEmptyPlanOnlyClears(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM plan_items").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	tx, err := repo.BeginTxx(context.Background())
	require.NoError(t, err)

	err = repo.ReplaceForUser(context.Background(), tx, "u1", nil)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanListByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPlanRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "subject_id", "subject_name", "date", "hours", "type", "created_at"}).
		AddRow("p1", "u1", "s1", "Math", now, 2.0, string(models.PlanItemStudy), now).
		AddRow("p2", "u1", "s1", "Math", now.AddDate(0, 0, 1), 0.5, string(models.PlanItemRevision), now)
	mock.ExpectQuery("SELECT id, user_id, subject_id, subject_name, date, hours, type, created_at FROM plan_items").
		WithArgs("u1").
		WillReturnRows(rows)

	items, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.PlanItemStudy, items[0].Type)
	assert.Equal(t, models.PlanItemRevision, items[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}
