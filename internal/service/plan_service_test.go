package service

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumora/studyplan-api/internal/models"
	appErrors "github.com/lumora/studyplan-api/pkg/errors"
)

type mockPlanSubjectRepo struct {
	subjects []models.Subject
}

func (m *mockPlanSubjectRepo) ListByUser(ctx context.Context, userID string) ([]models.Subject, error) {
	return m.subjects, nil
}

type mockPlanRepo struct {
	db     *sqlx.DB
	stored []models.PlanItem
	listed []models.PlanItem
}

func (m *mockPlanRepo) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return m.db.BeginTxx(ctx, nil)
}

func (m *mockPlanRepo) ReplaceForUser(ctx context.Context, tx *sqlx.Tx, userID string, items []models.PlanItem) error {
	m.stored = items
	return nil
}

func (m *mockPlanRepo) ListByUser(ctx context.Context, userID string) ([]models.PlanItem, error) {
	return m.listed, nil
}

type stubPlanCache struct {
	plans       map[string][]models.PlanItem
	sets        int
	invalidated []string
}

func (c *stubPlanCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	items, ok := c.plans[key]
	if !ok {
		return false, nil
	}
	*dest.(*[]models.PlanItem) = items
	return true, nil
}

func (c *stubPlanCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.sets++
	return nil
}

func (c *stubPlanCache) Invalidate(ctx context.Context, pattern string) error {
	c.invalidated = append(c.invalidated, pattern)
	return nil
}

func newPlanMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestGeneratePlanNoSubjects(t *testing.T) {
	db, _ := newPlanMockDB(t)
	svc := NewPlanService(&mockPlanSubjectRepo{}, &mockPlanRepo{db: db}, nil, nil, nil, PlanConfig{})

	_, err := svc.Generate(context.Background(), "u1", models.GeneratePlanRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoSubjects.Code, appErrors.FromError(err).Code)
}

func TestGeneratePlanStoresItemsAndInvalidatesCache(t *testing.T) {
	db, mock := newPlanMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	subjects := &mockPlanSubjectRepo{subjects: []models.Subject{
		{ID: "s1", UserID: "u1", Name: "Math", Difficulty: 3, ExamDate: start.AddDate(0, 0, 14), EstimatedHours: 2},
	}}
	plans := &mockPlanRepo{db: db}
	cache := &stubPlanCache{}
	svc := NewPlanService(subjects, plans, cache, nil, nil, PlanConfig{})

	summary, err := svc.Generate(context.Background(), "u1", models.GeneratePlanRequest{StartDate: &start})
	require.NoError(t, err)

	// 2h fits one study chunk, followed by revisions at +1, +3 and +7.
	assert.Equal(t, 2.0, summary.TotalStudyHours)
	assert.Equal(t, 1.5, summary.TotalRevisionHours)
	require.Len(t, plans.stored, 4)
	assert.Equal(t, models.PlanItemStudy, plans.stored[0].Type)
	for _, item := range plans.stored {
		assert.Equal(t, "u1", item.UserID)
	}
	assert.Equal(t, []string{"plan:user:u1"}, cache.invalidated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGeneratePlanRejectsInvalidSubject(t *testing.T) {
	db, _ := newPlanMockDB(t)
	subjects := &mockPlanSubjectRepo{subjects: []models.Subject{
		{ID: "s1", UserID: "u1", Name: "Broken", Difficulty: 9, ExamDate: time.Now().AddDate(0, 0, 7), EstimatedHours: 4},
	}}
	svc := NewPlanService(subjects, &mockPlanRepo{db: db}, nil, nil, nil, PlanConfig{})

	_, err := svc.Generate(context.Background(), "u1", models.GeneratePlanRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidSubject.Code, appErrors.FromError(err).Code)
}

func TestGeneratePlanHonorsConfiguredCapacity(t *testing.T) {
	db, mock := newPlanMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	subjects := &mockPlanSubjectRepo{subjects: []models.Subject{
		{ID: "s1", UserID: "u1", Name: "Math", Difficulty: 3, ExamDate: start.AddDate(0, 0, 20), EstimatedHours: 40},
	}}
	plans := &mockPlanRepo{db: db}
	svc := NewPlanService(subjects, plans, nil, nil, nil, PlanConfig{HorizonDays: 2, MaxDailyHours: 3})

	summary, err := svc.Generate(context.Background(), "u1", models.GeneratePlanRequest{StartDate: &start})
	require.NoError(t, err)

	// 2 days at 3h/day caps study time at 6h regardless of the estimate.
	assert.Equal(t, 6.0, summary.TotalStudyHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPlanServedFromCache(t *testing.T) {
	db, _ := newPlanMockDB(t)
	cached := []models.PlanItem{{ID: "p1", UserID: "u1", SubjectName: "Math", Hours: 2, Type: models.PlanItemStudy}}
	cache := &stubPlanCache{plans: map[string][]models.PlanItem{"plan:user:u1": cached}}
	svc := NewPlanService(&mockPlanSubjectRepo{}, &mockPlanRepo{db: db}, cache, nil, nil, PlanConfig{})

	items, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, cached, items)
}

func TestGetPlanFallsBackToStore(t *testing.T) {
	db, _ := newPlanMockDB(t)
	stored := []models.PlanItem{{ID: "p1", UserID: "u1", SubjectName: "Math", Hours: 2, Type: models.PlanItemStudy}}
	cache := &stubPlanCache{}
	svc := NewPlanService(&mockPlanSubjectRepo{}, &mockPlanRepo{db: db, listed: stored}, cache, nil, nil, PlanConfig{})

	items, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, stored, items)
	assert.Equal(t, 1, cache.sets)
}
