package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lumora/studyplan-api/internal/models"
	appErrors "github.com/lumora/studyplan-api/pkg/errors"
	"github.com/lumora/studyplan-api/pkg/export"
)

// ExportFormat enumerates supported plan export formats.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

type exportPlanRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.PlanItem, error)
}

// ExportResult carries rendered export bytes and response metadata.
type ExportResult struct {
	Content     []byte
	Filename    string
	ContentType string
}

// ExportService renders a stored plan as a downloadable document.
type ExportService struct {
	plans   exportPlanRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
	enabled bool
}

// NewExportService constructs an ExportService instance.
func NewExportService(plans exportPlanRepository, logger *zap.Logger, enabled bool) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		plans:   plans,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		enabled: enabled,
	}
}

// ExportPlan renders the user's stored plan in the requested format.
func (s *ExportService) ExportPlan(ctx context.Context, userID string, format ExportFormat) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	items, err := s.plans.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}
	if len(items) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no stored plan to export")
	}

	data := planDataset(items)
	stamp := time.Now().UTC().Format("2006-01-02")

	switch ExportFormat(strings.ToLower(string(format))) {
	case ExportCSV:
		content, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			Filename:    fmt.Sprintf("study-plan-%s.csv", stamp),
			ContentType: "text/csv",
		}, nil
	case ExportPDF:
		subtitle := fmt.Sprintf("%d sessions, exported %s", len(items), stamp)
		content, err := s.pdf.Render(data, "Study Plan", subtitle)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			Filename:    fmt.Sprintf("study-plan-%s.pdf", stamp),
			ContentType: "application/pdf",
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func planDataset(items []models.PlanItem) export.Dataset {
	headers := []string{"Date", "Subject", "Hours", "Type"}
	rows := make([]map[string]string, len(items))
	for i, item := range items {
		rows[i] = map[string]string{
			"Date":    item.Date.Format("2006-01-02"),
			"Subject": item.SubjectName,
			"Hours":   fmt.Sprintf("%.1f", item.Hours),
			"Type":    string(item.Type),
		}
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
