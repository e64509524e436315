package services

import (
	"context"

	model "taskflow.com/taskflow/internal/models"
	repository "taskflow.com/taskflow/internal/repositories"
)

const defaultNotificationLimit = 50

type NotificationService struct {
	notifications *repository.NotificationRepository
}

func NewNotificationService(notifications *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

type NotificationList struct {
	Items       []model.Notification
	UnreadCount int64
}

func (s *NotificationService) List(ctx context.Context, recipientID string, limit int) (*NotificationList, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	items, err := s.notifications.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, err
	}

	unread, err := s.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	return &NotificationList{Items: items, UnreadCount: unread}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID string) (*model.Notification, error) {
	return s.notifications.MarkRead(ctx, id, recipientID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.notifications.MarkAllRead(ctx, recipientID)
}

func (s *NotificationService) Delete(ctx context.Context, id, recipientID string) error {
	return s.notifications.Delete(ctx, id, recipientID)
}

func (s *NotificationService) DeleteAll(ctx context.Context, recipientID string) error {
	return s.notifications.DeleteAll(ctx, recipientID)
}
