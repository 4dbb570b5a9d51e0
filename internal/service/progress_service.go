package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lumora/studyplan-api/internal/models"
	appErrors "github.com/lumora/studyplan-api/pkg/errors"
)

type sessionRepository interface {
	Create(ctx context.Context, session *models.StudySession) error
	ListByUser(ctx context.Context, userID string) ([]models.StudySession, error)
	SumHoursBySubject(ctx context.Context, userID string) (map[string]float64, error)
}

type progressSubjectRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// ProgressService records completed study sessions and reports completion
// against each subject's estimate.
type ProgressService struct {
	sessions  sessionRepository
	subjects  progressSubjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProgressService constructs a ProgressService instance.
func NewProgressService(sessions sessionRepository, subjects progressSubjectRepository, validate *validator.Validate, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProgressService{sessions: sessions, subjects: subjects, validator: validate, logger: logger}
}

// LogSession records hours the user completed for one of their subjects.
func (s *ProgressService) LogSession(ctx context.Context, userID string, req models.SessionCreateRequest) (*models.StudySession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}

	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	if subject.UserID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "subject does not belong to user")
	}

	session := &models.StudySession{
		UserID:    userID,
		SubjectID: req.SubjectID,
		Date:      req.Date,
		Hours:     req.Hours,
		Notes:     req.Notes,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record session")
	}

	s.logger.Info("study session logged",
		zap.String("user_id", userID),
		zap.String("subject_id", req.SubjectID),
		zap.Float64("hours", req.Hours))
	return session, nil
}

// Sessions returns the user's logged sessions.
func (s *ProgressService) Sessions(ctx context.Context, userID string) ([]models.StudySession, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// Progress aggregates completed hours per subject against its estimate.
// Completion is capped at 100 percent even when logged hours overshoot.
func (s *ProgressService) Progress(ctx context.Context, userID string) ([]models.SubjectProgress, error) {
	subjects, err := s.subjects.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}

	totals, err := s.sessions.SumHoursBySubject(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate sessions")
	}

	progress := make([]models.SubjectProgress, len(subjects))
	for i, subject := range subjects {
		completed := totals[subject.ID]
		var percent float64
		if subject.EstimatedHours > 0 {
			percent = completed / subject.EstimatedHours * 100
			if percent > 100 {
				percent = 100
			}
		}
		progress[i] = models.SubjectProgress{
			SubjectID:      subject.ID,
			SubjectName:    subject.Name,
			EstimatedHours: subject.EstimatedHours,
			CompletedHours: completed,
			Percent:        percent,
		}
	}
	return progress, nil
}
