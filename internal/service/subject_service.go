package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lumora/studyplan-api/internal/models"
	appErrors "github.com/lumora/studyplan-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

// SubjectService manages the subjects a learner is preparing for.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService instance.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

// List returns the user's subjects with pagination metadata.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	pagination := &models.Pagination{
		Page:       page,
		PageSize:   size,
		TotalCount: total,
	}
	return subjects, pagination, nil
}

// Get returns one subject after an ownership check.
func (s *SubjectService) Get(ctx context.Context, userID, subjectID string) (*models.Subject, error) {
	return s.findOwned(ctx, userID, subjectID)
}

// Create registers a new subject for the user.
func (s *SubjectService) Create(ctx context.Context, userID string, req models.SubjectCreateRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject := &models.Subject{
		UserID:         userID,
		Name:           req.Name,
		Difficulty:     req.Difficulty,
		ExamDate:       req.ExamDate,
		EstimatedHours: req.EstimatedHours,
	}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}

	s.logger.Info("subject created",
		zap.String("subject_id", subject.ID),
		zap.String("user_id", userID),
		zap.Int("difficulty", subject.Difficulty))
	return subject, nil
}

// Update modifies an owned subject.
func (s *SubjectService) Update(ctx context.Context, userID, subjectID string, req models.SubjectUpdateRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject, err := s.findOwned(ctx, userID, subjectID)
	if err != nil {
		return nil, err
	}

	subject.Name = req.Name
	subject.Difficulty = req.Difficulty
	subject.ExamDate = req.ExamDate
	subject.EstimatedHours = req.EstimatedHours

	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	return subject, nil
}

// Delete removes an owned subject.
func (s *SubjectService) Delete(ctx context.Context, userID, subjectID string) error {
	if _, err := s.findOwned(ctx, userID, subjectID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, subjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.logger.Info("subject deleted", zap.String("subject_id", subjectID), zap.String("user_id", userID))
	return nil
}

func (s *SubjectService) findOwned(ctx context.Context, userID, subjectID string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if subject.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "subject does not belong to user")
	}
	return subject, nil
}
