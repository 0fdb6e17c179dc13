package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ecole-stages/stage-api/internal/models"
	appErrors "github.com/ecole-stages/stage-api/pkg/errors"
	"github.com/ecole-stages/stage-api/pkg/export"
)

type declarationLister interface {
	List(ctx context.Context) ([]models.DeclarationDetail, error)
}

// ExportResult carries a rendered report ready to be served.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the declaration roster as a downloadable report.
type ExportService struct {
	declarations declarationLister
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
}

// NewExportService constructs the export service.
func NewExportService(declarations declarationLister) *ExportService {
	return &ExportService{
		declarations: declarations,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
	}
}

var exportHeaders = []string{"ID", "Student", "Email", "Company", "Subject", "Start", "End", "Status", "Comment"}

// Declarations renders all declarations in the requested format, csv or pdf.
func (s *ExportService) Declarations(ctx context.Context, format string) (*ExportResult, error) {
	declarations, err := s.declarations.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load declarations")
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(declarations))}
	for _, d := range declarations {
		comment := ""
		if d.Comment != nil {
			comment = *d.Comment
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":      strconv.FormatInt(d.ID, 10),
			"Student": d.StudentName,
			"Email":   d.StudentEmail,
			"Company": d.Company,
			"Subject": d.Subject,
			"Start":   d.StartDate.String(),
			"End":     d.EndDate.String(),
			"Status":  string(d.Status),
			"Comment": comment,
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case "csv", "":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("declarations-%s.csv", stamp),
		}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, "Internship declarations")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("declarations-%s.pdf", stamp),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
