package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-activities-api/internal/access"
	"github.com/noah-isme/campus-activities-api/internal/dto"
	"github.com/noah-isme/campus-activities-api/internal/models"
	appErrors "github.com/noah-isme/campus-activities-api/pkg/errors"
)

type applicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id int64) (*models.Application, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Application, error)
	ListAll(ctx context.Context) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error)
	CountByStatus(ctx context.Context) (*models.StatusCounts, error)
}

// ApplicationConfig tunes the review workflow.
type ApplicationConfig struct {
	// StrictStatus rejects statuses other than pending, approved and rejected.
	StrictStatus bool
}

// ApplicationService implements the application workflow.
type ApplicationService struct {
	repo      applicationRepository
	notifier  Notifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    ApplicationConfig
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(repo applicationRepository, notifier Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ApplicationConfig) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApplicationService{repo: repo, notifier: notifier, metrics: metrics, validator: validate, logger: logger, config: cfg}
}

// Submit stores a new pending application owned by the caller.
func (s *ApplicationService) Submit(ctx context.Context, p *models.Principal, req dto.SubmitApplicationRequest) (*dto.SubmittedApplication, error) {
	if err := access.Require(p); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.ActivityType = strings.TrimSpace(req.ActivityType)
	req.ActivityNumber = strings.TrimSpace(req.ActivityNumber)
	req.College = strings.TrimSpace(req.College)
	req.Department = strings.TrimSpace(req.Department)
	req.Specialization = strings.TrimSpace(req.Specialization)
	req.Phone = strings.TrimSpace(req.Phone)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "activityType, activityNumber, college, department, specialization and phone are required")
	}

	studentName := req.Name
	if studentName == "" {
		studentName = p.FullName
	}
	app := &models.Application{
		UserID:         p.UserID,
		StudentName:    studentName,
		ActivityType:   req.ActivityType,
		ActivityNumber: req.ActivityNumber,
		College:        req.College,
		Department:     req.Department,
		Specialization: req.Specialization,
		Phone:          req.Phone,
		Status:         models.ApplicationStatusPending,
	}
	if details := strings.TrimSpace(req.Details); details != "" {
		app.Details = &details
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, appErrors.Internal(err, "failed to submit application")
	}

	s.logger.Info("application submitted", zap.Int64("application_id", app.ID), zap.Int64("user_id", p.UserID))
	return &dto.SubmittedApplication{ID: app.ID, Status: string(app.Status)}, nil
}

// ListMine returns the caller's applications, newest first.
func (s *ApplicationService) ListMine(ctx context.Context, p *models.Principal) ([]models.Application, error) {
	if err := access.Require(p); err != nil {
		return nil, err
	}
	apps, err := s.repo.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list applications")
	}
	return nonNil(apps), nil
}

// ListAll returns every application. Staff only.
func (s *ApplicationService) ListAll(ctx context.Context, p *models.Principal) ([]models.Application, error) {
	if err := access.Staff(p); err != nil {
		return nil, err
	}
	apps, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list applications")
	}
	return nonNil(apps), nil
}

// UpdateStatus reviews an application and notifies its owner. Staff only.
// Re-review is allowed; any non-empty status is accepted unless StrictStatus
// is set.
func (s *ApplicationService) UpdateStatus(ctx context.Context, p *models.Principal, id int64, req dto.UpdateApplicationStatusRequest) (*models.Application, error) {
	if err := access.Staff(p); err != nil {
		return nil, err
	}
	req.Status = strings.TrimSpace(req.Status)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "status is required")
	}
	status := models.ApplicationStatus(req.Status)
	if s.config.StrictStatus && !status.Known() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending, approved or rejected")
	}
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Internal(err, "failed to load application")
	}

	app, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Internal(err, "failed to update application status")
	}

	s.metrics.RecordApplicationReview(string(status))
	s.logger.Info("application status updated",
		zap.Int64("application_id", id),
		zap.String("previous_status", string(current.Status)),
		zap.String("status", string(status)),
		zap.Int64("employee_id", p.UserID),
	)
	notifyBestEffort(ctx, s.notifier, s.logger, app.UserID,
		"Application updated",
		fmt.Sprintf("Your application %s is now %s.", app.ActivityNumber, status),
		notificationForStatus(string(status)),
	)
	return app, nil
}

// Statistics counts all applications by status. Staff only.
func (s *ApplicationService) Statistics(ctx context.Context, p *models.Principal) (*models.StatusCounts, error) {
	if err := access.Staff(p); err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load statistics")
	}
	return counts, nil
}

func notificationForStatus(status string) models.NotificationType {
	switch status {
	case "approved":
		return models.NotificationSuccess
	case "rejected":
		return models.NotificationWarning
	}
	return models.NotificationInfo
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
