package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-activities-api/internal/access"
	"github.com/noah-isme/campus-activities-api/internal/dto"
	"github.com/noah-isme/campus-activities-api/internal/models"
	"github.com/noah-isme/campus-activities-api/internal/repository"
	appErrors "github.com/noah-isme/campus-activities-api/pkg/errors"
)

type activityRepository interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, activity *models.Activity) error
	CreateBatch(ctx context.Context, activities []models.Activity) error
	ListActiveWithStatus(ctx context.Context, userID int64) ([]dto.ActivityWithStatus, error)
	ListAll(ctx context.Context) ([]models.Activity, error)
	ListRoster(ctx context.Context) ([]dto.RosterEntry, error)
	ListRegistrationsByUser(ctx context.Context, userID int64) ([]dto.RegistrationRow, error)
	Register(ctx context.Context, activityID, userID int64) (*models.ActivityRegistration, *models.Activity, error)
}

// ActivityService implements the activity registry.
type ActivityService struct {
	repo      activityRepository
	notifier  Notifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewActivityService constructs an ActivityService.
func NewActivityService(repo activityRepository, notifier Notifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ActivityService{repo: repo, notifier: notifier, metrics: metrics, validator: validate, logger: logger}
}

// List returns active activities annotated with the caller's registration.
func (s *ActivityService) List(ctx context.Context, p *models.Principal) ([]dto.ActivityView, error) {
	if err := access.Require(p); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListActiveWithStatus(ctx, p.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list activities")
	}

	views := make([]dto.ActivityView, 0, len(rows))
	for _, row := range rows {
		view := dto.NewActivityView(row.Activity)
		view.IsRegistered = row.RegistrationStatus != nil
		view.RegistrationStatus = row.RegistrationStatus
		views = append(views, view)
	}
	return views, nil
}

// Register enrols the caller in an activity. The capacity check and the
// increment happen in one repository transaction.
func (s *ActivityService) Register(ctx context.Context, p *models.Principal, activityID int64) (*models.ActivityRegistration, error) {
	if err := access.Require(p); err != nil {
		return nil, err
	}
	if activityID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid activity id")
	}

	reg, activity, err := s.repo.Register(ctx, activityID, p.UserID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			s.metrics.RecordRegistration(RegistrationOutcomeNotFound)
			return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
		case errors.Is(err, repository.ErrActivityFull):
			s.metrics.RecordRegistration(RegistrationOutcomeFull)
			return nil, appErrors.ErrActivityFull
		case errors.Is(err, repository.ErrAlreadyRegistered):
			s.metrics.RecordRegistration(RegistrationOutcomeDuplicate)
			return nil, appErrors.Clone(appErrors.ErrConflict, "already registered for this activity")
		}
		s.metrics.RecordRegistration(RegistrationOutcomeError)
		return nil, appErrors.Internal(err, "failed to register for activity")
	}

	s.metrics.RecordRegistration(RegistrationOutcomeRegistered)
	s.logger.Info("activity registration created",
		zap.Int64("activity_id", activityID),
		zap.Int64("user_id", p.UserID),
		zap.Int("registered_count", activity.RegisteredCount),
	)
	notifyBestEffort(ctx, s.notifier, s.logger, p.UserID,
		"Registration confirmed",
		fmt.Sprintf("You are registered for %s.", activity.Name),
		models.NotificationSuccess,
	)
	return reg, nil
}

// MyRegistrations returns the caller's registrations with activity details.
func (s *ActivityService) MyRegistrations(ctx context.Context, p *models.Principal) ([]dto.RegistrationView, error) {
	if err := access.Require(p); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRegistrationsByUser(ctx, p.UserID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list registrations")
	}
	views := make([]dto.RegistrationView, 0, len(rows))
	for _, row := range rows {
		views = append(views, dto.RegistrationView{
			ID:           row.ID,
			Status:       row.Status,
			RegisteredAt: row.RegisteredAt,
			Activity:     row.RegistrationActivity,
		})
	}
	return views, nil
}

// Add creates an activity. Staff only.
func (s *ActivityService) Add(ctx context.Context, p *models.Principal, req dto.CreateActivityRequest) (*dto.ActivityView, error) {
	if err := access.Staff(p); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.Location = strings.TrimSpace(req.Location)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "name, description, category, availableSlots, location, startDate and endDate are required")
	}

	start, ok := parseTimestamp(req.StartDate)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be an ISO 8601 timestamp")
	}
	end, ok := parseTimestamp(req.EndDate)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be an ISO 8601 timestamp")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	description := req.Description
	location := req.Location
	activity := &models.Activity{
		Name:           req.Name,
		Description:    &description,
		Category:       req.Category,
		AvailableSlots: *req.AvailableSlots,
		Location:       &location,
		StartDate:      &start,
		EndDate:        &end,
		IsActive:       isActive,
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, appErrors.Internal(err, "failed to create activity")
	}

	s.logger.Info("activity created", zap.Int64("activity_id", activity.ID), zap.Int64("employee_id", p.UserID))
	view := dto.NewActivityView(*activity)
	return &view, nil
}

// ListWithRoster returns every activity together with its registrants. Staff
// only.
func (s *ActivityService) ListWithRoster(ctx context.Context, p *models.Principal) ([]dto.ActivityRoster, error) {
	if err := access.Staff(p); err != nil {
		return nil, err
	}
	activities, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list activities")
	}
	entries, err := s.repo.ListRoster(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list registrations")
	}

	byActivity := make(map[int64][]dto.RosterEntry, len(activities))
	for _, entry := range entries {
		byActivity[entry.ActivityID] = append(byActivity[entry.ActivityID], entry)
	}

	result := make([]dto.ActivityRoster, 0, len(activities))
	for _, activity := range activities {
		students := byActivity[activity.ID]
		if students == nil {
			students = []dto.RosterEntry{}
		}
		result = append(result, dto.ActivityRoster{ActivityView: dto.NewActivityView(activity), Students: students})
	}
	return result, nil
}

// SeedDefaults inserts the default catalogue when no activity exists. It
// returns the number of activities created.
func (s *ActivityService) SeedDefaults(ctx context.Context, now time.Time) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to count activities")
	}
	if count > 0 {
		return 0, nil
	}

	defaults := DefaultActivities(now)
	if err := s.repo.CreateBatch(ctx, defaults); err != nil {
		return 0, appErrors.Internal(err, "failed to seed activities")
	}
	s.logger.Info("default activities created", zap.Int("count", len(defaults)))
	return len(defaults), nil
}

type defaultActivity struct {
	name, description, category, location string
	slots, startInDays                    int
}

var defaultCatalogue = []defaultActivity{
	{"Sports Activity", "A variety of sports activities for students", "sports", "Sports Hall", 50, 7},
	{"Cultural Activity", "Cultural and literary events", "cultural", "Main Auditorium", 100, 10},
	{"Arts Activity", "Creative and artistic workshops", "arts", "Arts Center", 30, 5},
	{"Science Activity", "Scientific lectures and seminars", "science", "Science Lab", 75, 14},
	{"Social Activity", "Volunteering and social activities", "social", "Student Center", 60, 3},
	{"Tech Activity", "Programming and information technology workshops", "tech", "Computer Lab", 40, 12},
}

// DefaultActivities builds the first-boot catalogue relative to now. Each
// activity runs for thirty days.
func DefaultActivities(now time.Time) []models.Activity {
	now = now.UTC()
	activities := make([]models.Activity, 0, len(defaultCatalogue))
	for _, d := range defaultCatalogue {
		description, location := d.description, d.location
		start := now.AddDate(0, 0, d.startInDays)
		end := start.AddDate(0, 0, 30)
		activities = append(activities, models.Activity{
			Name:           d.name,
			Description:    &description,
			Category:       d.category,
			AvailableSlots: d.slots,
			Location:       &location,
			StartDate:      &start,
			EndDate:        &end,
			IsActive:       true,
		})
	}
	return activities
}
