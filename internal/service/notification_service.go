package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-activities-api/internal/models"
	appErrors "github.com/noah-isme/campus-activities-api/pkg/errors"
)

type notificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Notifier records a notification for a user. Workflow services treat it as
// best effort.
type Notifier interface {
	Notify(ctx context.Context, userID int64, title, message string, kind models.NotificationType) error
}

// NotificationService persists notifications.
type NotificationService struct {
	repo   notificationRepository
	logger *zap.Logger
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(repo notificationRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, logger: logger}
}

// Notify stores one unread notification. An empty kind defaults to info.
func (s *NotificationService) Notify(ctx context.Context, userID int64, title, message string, kind models.NotificationType) error {
	if kind == "" {
		kind = models.NotificationInfo
	}
	if !kind.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "unknown notification type")
	}
	title = strings.TrimSpace(title)
	if userID == 0 || title == "" || strings.TrimSpace(message) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "notification requires user, title and message")
	}

	n := &models.Notification{UserID: userID, Title: title, Message: message, Type: kind}
	if err := s.repo.Create(ctx, n); err != nil {
		return appErrors.Internal(err, "failed to store notification")
	}
	return nil
}

// notifyBestEffort sends a notification and only logs failures.
func notifyBestEffort(ctx context.Context, n Notifier, logger *zap.Logger, userID int64, title, message string, kind models.NotificationType) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, userID, title, message, kind); err != nil {
		logger.Warn("failed to record notification", zap.Int64("user_id", userID), zap.String("title", title), zap.Error(err))
	}
}
