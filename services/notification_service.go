package services

import (
	"context"

	"hotel-reservation/models"
	"hotel-reservation/repository"
)

// NotificationService is the read side of the in-app inbox.
type NotificationService struct {
	store repository.NotificationStore
}

func NewNotificationService(store repository.NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, kind models.RecipientKind, recipientID uint) ([]models.Notification, error) {
	return s.store.ListForRecipient(ctx, kind, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	return s.store.MarkRead(ctx, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, kind models.RecipientKind, recipientID uint) (int64, error) {
	return s.store.MarkAllRead(ctx, kind, recipientID)
}
