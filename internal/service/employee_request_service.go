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
	"github.com/noah-isme/campus-activities-api/internal/repository"
	appErrors "github.com/noah-isme/campus-activities-api/pkg/errors"
)

type employeeRequestRepository interface {
	Create(ctx context.Context, req *models.EmployeeRequest) error
	FindRowByID(ctx context.Context, id int64) (*dto.RequestRow, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]dto.RequestRow, error)
	ListForStudent(ctx context.Context, studentID int64) ([]dto.RequestRow, error)
	Respond(ctx context.Context, id, studentID int64, status models.RequestStatus, message *string) (*models.EmployeeRequest, error)
	CountByStatusForEmployee(ctx context.Context, employeeID int64) (*models.StatusCounts, error)
}

type userLookup interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// EmployeeRequestService implements directed and broadcast staff requests.
type EmployeeRequestService struct {
	repo      employeeRequestRepository
	users     userLookup
	notifier  Notifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeRequestService constructs an EmployeeRequestService.
func NewEmployeeRequestService(repo employeeRequestRepository, users userLookup, notifier Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EmployeeRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EmployeeRequestService{repo: repo, users: users, notifier: notifier, metrics: metrics, validator: validate, logger: logger}
}

// Send creates a request. A nil StudentID broadcasts it to every student.
// Staff only.
func (s *EmployeeRequestService) Send(ctx context.Context, p *models.Principal, req dto.SendRequestPayload) (*dto.RequestView, error) {
	if err := access.Staff(p); err != nil {
		return nil, err
	}
	req.RequestType = strings.TrimSpace(req.RequestType)
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "requestType, title and description are required")
	}

	record := &models.EmployeeRequest{
		EmployeeID:   p.UserID,
		StudentID:    req.StudentID,
		RequestType:  req.RequestType,
		Title:        req.Title,
		Description:  req.Description,
		ActivityName: optionalText(req.ActivityName),
		ActivityCode: optionalText(req.ActivityCode),
	}
	if strings.TrimSpace(req.Deadline) != "" {
		deadline, ok := parseTimestamp(req.Deadline)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "deadline must be an ISO 8601 timestamp")
		}
		record.Deadline = &deadline
	}

	var target *models.User
	if req.StudentID != nil {
		user, err := s.users.FindByID(ctx, *req.StudentID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrValidation, "studentId does not reference a student")
		case err != nil:
			return nil, appErrors.Internal(err, "failed to load student")
		case user.Role != models.RoleStudent:
			return nil, appErrors.Clone(appErrors.ErrValidation, "studentId does not reference a student")
		}
		target = user
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Internal(err, "failed to send request")
	}

	s.logger.Info("employee request sent",
		zap.Int64("request_id", record.ID),
		zap.Int64("employee_id", p.UserID),
		zap.Bool("broadcast", record.IsBroadcast()),
	)

	row := dto.RequestRow{EmployeeRequest: *record, EmployeeName: &p.FullName}
	if target != nil {
		row.StudentName = &target.FullName
		notifyBestEffort(ctx, s.notifier, s.logger, target.ID,
			"New request",
			fmt.Sprintf("%s sent you a request: %s", p.FullName, record.Title),
			models.NotificationInfo,
		)
	}
	view := dto.NewRequestView(row)
	return &view, nil
}

// ListMine returns requests authored by the caller. Staff only.
func (s *EmployeeRequestService) ListMine(ctx context.Context, p *models.Principal) ([]dto.RequestView, error) {
	if err := access.Staff(p); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByEmployee(ctx, p.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list requests")
	}
	return requestViews(rows), nil
}

// ListForStudent returns requests bound to the caller and unclaimed
// broadcasts. Student only.
func (s *EmployeeRequestService) ListForStudent(ctx context.Context, p *models.Principal) ([]dto.RequestView, error) {
	if err := access.Student(p); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListForStudent(ctx, p.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list requests")
	}
	return requestViews(rows), nil
}

// Respond answers a request. Answering a broadcast binds it to the caller.
// Student only.
func (s *EmployeeRequestService) Respond(ctx context.Context, p *models.Principal, id int64, req dto.RespondRequestPayload) (*dto.RequestView, error) {
	if err := access.Student(p); err != nil {
		return nil, err
	}
	req.Status = strings.TrimSpace(req.Status)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "status must be approved or rejected")
	}
	status := models.RequestStatus(req.Status)
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
	}

	updated, err := s.repo.Respond(ctx, id, p.UserID, status, optionalText(req.ResponseMessage))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		case errors.Is(err, repository.ErrRequestNotAssigned):
			return nil, appErrors.Clone(appErrors.ErrForbidden, "request is addressed to another student")
		case errors.Is(err, repository.ErrAlreadyResponded):
			return nil, appErrors.Clone(appErrors.ErrConflict, "request already answered")
		}
		return nil, appErrors.Internal(err, "failed to respond to request")
	}

	s.metrics.RecordRequestResponse(string(status))
	s.logger.Info("employee request answered",
		zap.Int64("request_id", id),
		zap.Int64("student_id", p.UserID),
		zap.String("status", string(status)),
	)
	notifyBestEffort(ctx, s.notifier, s.logger, updated.EmployeeID,
		"Request answered",
		fmt.Sprintf("%s %s your request: %s", p.FullName, status, updated.Title),
		notificationForStatus(string(status)),
	)

	row, err := s.repo.FindRowByID(ctx, id)
	if err != nil {
		s.logger.Warn("failed to reload answered request", zap.Int64("request_id", id), zap.Error(err))
		row = &dto.RequestRow{EmployeeRequest: *updated, StudentName: &p.FullName}
	}
	view := dto.NewRequestView(*row)
	return &view, nil
}

// Statistics counts the caller's requests by status. Staff only.
func (s *EmployeeRequestService) Statistics(ctx context.Context, p *models.Principal) (*models.StatusCounts, error) {
	if err := access.Staff(p); err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatusForEmployee(ctx, p.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load statistics")
	}
	return counts, nil
}

func requestViews(rows []dto.RequestRow) []dto.RequestView {
	views := make([]dto.RequestView, 0, len(rows))
	for _, row := range rows {
		views = append(views, dto.NewRequestView(row))
	}
	return views
}

func optionalText(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}
