package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ecole-stages/stage-api/internal/models"
	appErrors "github.com/ecole-stages/stage-api/pkg/errors"
)

type declarationRepository interface {
	List(ctx context.Context) ([]models.DeclarationDetail, error)
	FindByID(ctx context.Context, id int64) (*models.DeclarationDetail, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.DeclarationDetail, error)
	Create(ctx context.Context, decl *models.Declaration) error
	UpdateStatus(ctx context.Context, id int64, status models.DeclarationStatus, comment *string) error
	Delete(ctx context.Context, id int64) error
}

type statisticsInvalidator interface {
	Invalidate(ctx context.Context)
}

// CreateDeclarationRequest holds the payload for declaring an internship.
// Dates travel as ISO calendar dates. End before start is accepted, as it
// was in the legacy API.
type CreateDeclarationRequest struct {
	StudentID int64  `json:"studentId" validate:"required"`
	Company   string `json:"company" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
}

// UpdateStatusRequest holds the payload for reviewing a declaration.
type UpdateStatusRequest struct {
	Status  string  `json:"status" validate:"required"`
	Comment *string `json:"comment"`
}

// DeclarationService handles internship declaration use-cases.
type DeclarationService struct {
	repo      declarationRepository
	stats     statisticsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDeclarationService constructs the declaration service. stats may be nil
// when the statistics cache is disabled.
func NewDeclarationService(repo declarationRepository, stats statisticsInvalidator, validate *validator.Validate, logger *zap.Logger) *DeclarationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeclarationService{repo: repo, stats: stats, validator: validate, logger: logger}
}

// List returns all declarations with student details, most recent first.
func (s *DeclarationService) List(ctx context.Context) ([]models.DeclarationDetail, error) {
	declarations, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list declarations")
	}
	if declarations == nil {
		declarations = []models.DeclarationDetail{}
	}
	return declarations, nil
}

// Get returns a single joined declaration.
func (s *DeclarationService) Get(ctx context.Context, id int64) (*models.DeclarationDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "declaration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load declaration")
	}
	return detail, nil
}

// ListByStudent returns one student's declarations, possibly empty.
func (s *DeclarationService) ListByStudent(ctx context.Context, studentID int64) ([]models.DeclarationDetail, error) {
	declarations, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list declarations")
	}
	if declarations == nil {
		declarations = []models.DeclarationDetail{}
	}
	return declarations, nil
}

// Create declares a new internship. Status always starts at pending with no
// comment, regardless of input.
func (s *DeclarationService) Create(ctx context.Context, req CreateDeclarationRequest) (*models.DeclarationDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "studentId, company, subject, startDate and endDate are required")
	}
	startDate, err := models.ParseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be an ISO calendar date")
	}
	endDate, err := models.ParseDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be an ISO calendar date")
	}

	decl := &models.Declaration{
		StudentID: req.StudentID,
		Company:   req.Company,
		Subject:   req.Subject,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    models.StatusPending,
	}
	if err := s.repo.Create(ctx, decl); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create declaration")
	}
	s.invalidateStats(ctx)
	s.logger.Info("declaration created", zap.Int64("id", decl.ID), zap.Int64("student_id", decl.StudentID))

	detail, err := s.repo.FindByID(ctx, decl.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created declaration")
	}
	return detail, nil
}

// UpdateStatus overwrites the review status. The current status is not
// checked: an already reviewed declaration may be reviewed again.
func (s *DeclarationService) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*models.DeclarationDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status is required")
	}
	status, ok := models.ParseDeclarationStatus(req.Status)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending, approved or rejected")
	}
	if err := s.repo.UpdateStatus(ctx, id, status, req.Comment); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "declaration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update declaration")
	}
	s.invalidateStats(ctx)
	s.logger.Info("declaration reviewed", zap.Int64("id", id), zap.String("status", string(status)))

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load updated declaration")
	}
	return detail, nil
}

// Delete removes a declaration.
func (s *DeclarationService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "declaration not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete declaration")
	}
	s.invalidateStats(ctx)
	s.logger.Info("declaration deleted", zap.Int64("id", id))
	return nil
}

func (s *DeclarationService) invalidateStats(ctx context.Context) {
	if s.stats != nil {
		s.stats.Invalidate(ctx)
	}
}
