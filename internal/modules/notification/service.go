package notification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ethleaf/internal/domain"
	"ethleaf/internal/repository"
)

var ErrNotFound = errors.New("notification not found")

type Service struct {
	notifications *repository.NotificationRepository
}

func NewService(notifications *repository.NotificationRepository) *Service {
	return &Service{notifications: notifications}
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

// MarkOpened flags a notification as read. Notifications addressed to
// other users are indistinguishable from missing ones.
func (s *Service) MarkOpened(ctx context.Context, id, userID int64) error {
	err := s.notifications.MarkOpened(ctx, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
