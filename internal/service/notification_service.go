package service

import (
	"clinplace_backend/internal/model"
	"clinplace_backend/internal/repository"
	"clinplace_backend/internal/util"
	"context"
	"strings"
)

type NotificationService struct {
	Notifications *repository.NotificationRepository
}

func NewNotificationService(notifications *repository.NotificationRepository) *NotificationService {
	return &NotificationService{Notifications: notifications}
}

func (s *NotificationService) ListOwn(ctx context.Context, recipientID string) ([]model.Notification, error) {
	notifications, err := s.Notifications.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, util.UpstreamError(err)
	}
	if notifications == nil {
		notifications = make([]model.Notification, 0)
	}
	return notifications, nil
}

// MarkRead 只允许收件人本人标记已读。
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	if strings.TrimSpace(notificationID) == "" {
		return util.ValidationError("notification_id is required")
	}

	notifications, err := s.Notifications.ListByRecipient(ctx, recipientID)
	if err != nil {
		return util.UpstreamError(err)
	}

	for _, n := range notifications {
		if n.ID == notificationID {
			if err := s.Notifications.MarkRead(ctx, notificationID); err != nil {
				return util.UpstreamError(err)
			}
			return nil
		}
	}
	return util.NewAppError(util.CodeNotFound, "notification %s not found", notificationID)
}
