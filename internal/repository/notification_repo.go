package repository

import (
	"context"

	"gorm.io/gorm"

	"ethleaf/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	var notifications []domain.Notification
	tx := r.db.WithContext(ctx).
		Where("created_for_user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return notifications, nil
}

// MarkOpened flips is_opened for a notification owned by the user.
// Returns gorm.ErrRecordNotFound when the row does not exist or belongs
// to someone else.
func (r *NotificationRepository) MarkOpened(ctx context.Context, id, userID int64) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND created_for_user_id = ?", id, userID).
		Update("is_opened", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
