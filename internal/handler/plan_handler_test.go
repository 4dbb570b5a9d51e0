package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalmiddleware "github.com/lumora/studyplan-api/internal/middleware"
	"github.com/lumora/studyplan-api/internal/models"
	"github.com/lumora/studyplan-api/internal/service"
)

type planSubjectRepoMock struct {
	subjects []models.Subject
}

func (m *planSubjectRepoMock) ListByUser(ctx context.Context, userID string) ([]models.Subject, error) {
	return m.subjects, nil
}

type planRepoMock struct {
	db     *sqlx.DB
	stored []models.PlanItem
	listed []models.PlanItem
}

func (m *planRepoMock) BeginTxx(ctx context.Context) (*sqlx.Tx, error) {
	return m.db.BeginTxx(ctx, nil)
}

func (m *planRepoMock) ReplaceForUser(ctx context.Context, tx *sqlx.Tx, userID string, items []models.PlanItem) error {
	m.stored = items
	return nil
}

func (m *planRepoMock) ListByUser(ctx context.Context, userID string) ([]models.PlanItem, error) {
	return m.listed, nil
}

func newTestRouter(t *testing.T, h *PlanHandler, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if claims != nil {
		router.Use(func(c *gin.Context) {
			c.Set(internalmiddleware.ContextUserKey, claims)
			c.Next()
		})
	}
	router.POST("/plan/generate", h.Generate)
	router.GET("/plan", h.Get)
	router.GET("/plan/export", h.Export)
	return router
}

func learnerClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", Role: models.RoleLearner}
}

func TestPlanGenerateEndpoint(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	subjects := &planSubjectRepoMock{subjects: []models.Subject{
		{ID: "s1", UserID: "u1", Name: "Math", Difficulty: 3, ExamDate: time.Now().UTC().AddDate(0, 0, 14), EstimatedHours: 2},
	}}
	plans := &planRepoMock{db: sqlx.NewDb(db, "sqlmock")}
	planSvc := service.NewPlanService(subjects, plans, nil, nil, nil, service.PlanConfig{})
	h := NewPlanHandler(planSvc, service.NewExportService(plans, nil, true))

	router := newTestRouter(t, h, learnerClaims())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/plan/generate", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.PlanSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 2.0, envelope.Data.TotalStudyHours)
	assert.NotEmpty(t, envelope.Data.Items)
	assert.NotEmpty(t, plans.stored)
}

func TestPlanGenerateEndpointNoSubjects(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	plans := &planRepoMock{db: sqlx.NewDb(db, "sqlmock")}
	planSvc := service.NewPlanService(&planSubjectRepoMock{}, plans, nil, nil, nil, service.PlanConfig{})
	h := NewPlanHandler(planSvc, service.NewExportService(plans, nil, true))

	router := newTestRouter(t, h, learnerClaims())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/plan/generate", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NO_SUBJECTS")
}

func TestPlanGenerateEndpointUnauthenticated(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	plans := &planRepoMock{db: sqlx.NewDb(db, "sqlmock")}
	planSvc := service.NewPlanService(&planSubjectRepoMock{}, plans, nil, nil, nil, service.PlanConfig{})
	h := NewPlanHandler(planSvc, service.NewExportService(plans, nil, true))

	router := newTestRouter(t, h, nil)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/plan/generate", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPlanGetEndpoint(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stored := []models.PlanItem{{ID: "p1", UserID: "u1", SubjectName: "Math", Hours: 2, Type: models.PlanItemStudy}}
	plans := &planRepoMock{db: sqlx.NewDb(db, "sqlmock"), listed: stored}
	planSvc := service.NewPlanService(&planSubjectRepoMock{}, plans, nil, nil, nil, service.PlanConfig{})
	h := NewPlanHandler(planSvc, service.NewExportService(plans, nil, true))

	router := newTestRouter(t, h, learnerClaims())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/plan", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Math")
}

func TestPlanExportEndpointCSV(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	stored := []models.PlanItem{{
		ID: "p1", UserID: "u1", SubjectName: "Math",
		Date: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), Hours: 2, Type: models.PlanItemStudy,
	}}
	plans := &planRepoMock{db: sqlx.NewDb(db, "sqlmock"), listed: stored}
	planSvc := service.NewPlanService(&planSubjectRepoMock{}, plans, nil, nil, nil, service.PlanConfig{})
	h := NewPlanHandler(planSvc, service.NewExportService(plans, nil, true))

	router := newTestRouter(t, h, learnerClaims())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/plan/export?format=csv", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Body.String(), "2026-03-02,Math,2.0,study")
}
