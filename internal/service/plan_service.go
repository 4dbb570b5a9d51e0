package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/lumora/studyplan-api/internal/models"
	"github.com/lumora/studyplan-api/internal/planner"
	appErrors "github.com/lumora/studyplan-api/pkg/errors"
)

type planSubjectRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Subject, error)
}

type planRepository interface {
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
	ReplaceForUser(ctx context.Context, tx *sqlx.Tx, userID string, items []models.PlanItem) error
	ListByUser(ctx context.Context, userID string) ([]models.PlanItem, error)
}

type planCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// PlanConfig tunes plan generation.
type PlanConfig struct {
	HorizonDays   int
	MaxDailyHours float64
	CacheTTL      time.Duration
}

// PlanService generates study plans from a user's subjects and manages
// their persistence. Generation is all-or-nothing: the stored plan is
// swapped inside a transaction so readers never observe a partial plan.
type PlanService struct {
	subjects planSubjectRepository
	plans    planRepository
	cache    planCache
	metrics  *MetricsService
	logger   *zap.Logger
	config   PlanConfig
}

// NewPlanService constructs a PlanService instance.
func NewPlanService(subjects planSubjectRepository, plans planRepository, cache planCache, metrics *MetricsService, logger *zap.Logger, config PlanConfig) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{subjects: subjects, plans: plans, cache: cache, metrics: metrics, logger: logger, config: config}
}

func planCacheKey(userID string) string {
	return fmt.Sprintf("plan:user:%s", userID)
}

// Generate builds a fresh plan from the user's current subjects, replaces
// the stored plan and returns the result with aggregate totals.
func (s *PlanService) Generate(ctx context.Context, userID string, req models.GeneratePlanRequest) (*models.PlanSummary, error) {
	subjects, err := s.subjects.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	if len(subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoSubjects, "")
	}

	inputs := make([]planner.Subject, len(subjects))
	for i, subject := range subjects {
		inputs[i] = planner.Subject{
			ID:             subject.ID,
			Name:           subject.Name,
			Difficulty:     subject.Difficulty,
			ExamDate:       subject.ExamDate,
			EstimatedHours: subject.EstimatedHours,
		}
	}

	opts := planner.DefaultOptions()
	if s.config.HorizonDays > 0 {
		opts.HorizonDays = s.config.HorizonDays
	}
	if s.config.MaxDailyHours > 0 {
		opts.MaxDailyHours = s.config.MaxDailyHours
	}

	startDate := time.Now().UTC()
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	started := time.Now()
	planned, err := planner.BuildPlan(inputs, startDate, opts)
	if err != nil {
		var subjectErr *planner.InvalidSubjectError
		if errors.As(err, &subjectErr) {
			return nil, appErrors.Clone(appErrors.ErrInvalidSubject, subjectErr.Error())
		}
		var configErr *planner.InvalidConfigurationError
		if errors.As(err, &configErr) {
			return nil, appErrors.Clone(appErrors.ErrInvalidPlanConfig, configErr.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "plan generation failed")
	}

	now := time.Now().UTC()
	items := make([]models.PlanItem, len(planned))
	var studyHours, revisionHours float64
	var studyCount, revisionCount int
	for i, item := range planned {
		items[i] = models.PlanItem{
			UserID:      userID,
			SubjectID:   item.SubjectID,
			SubjectName: item.SubjectName,
			Date:        item.Date,
			Hours:       item.Hours,
			Type:        models.PlanItemType(item.Type),
			CreatedAt:   now,
		}
		if item.Type == planner.ItemStudy {
			studyHours += item.Hours
			studyCount++
		} else {
			revisionHours += item.Hours
			revisionCount++
		}
	}

	tx, err := s.plans.BeginTxx(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	if err := s.plans.ReplaceForUser(ctx, tx, userID, items); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed after plan replace error", zap.Error(rbErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store plan")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit plan")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, planCacheKey(userID)); err != nil {
			s.logger.Warn("plan cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	s.metrics.ObservePlanGeneration(studyCount, revisionCount, time.Since(started))

	s.logger.Info("plan generated",
		zap.String("user_id", userID),
		zap.Int("subjects", len(subjects)),
		zap.Int("study_items", studyCount),
		zap.Int("revision_items", revisionCount))

	return &models.PlanSummary{
		Items:              items,
		TotalStudyHours:    studyHours,
		TotalRevisionHours: revisionHours,
		GeneratedAt:        now,
	}, nil
}

// Get returns the stored plan, served from cache when possible.
func (s *PlanService) Get(ctx context.Context, userID string) ([]models.PlanItem, error) {
	key := planCacheKey(userID)
	if s.cache != nil {
		var cached []models.PlanItem
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return cached, nil
		}
	}

	items, err := s.plans.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	if s.cache != nil && len(items) > 0 {
		if err := s.cache.Set(ctx, key, items, s.config.CacheTTL); err != nil {
			s.logger.Warn("plan cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return items, nil
}
