package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ethleaf/internal/domain"
)

// KYCRequestFilter holds the reviewer listing filters. Nil fields mean
// "no filter"; malformed query values never reach this struct.
type KYCRequestFilter struct {
	Status          *domain.KYCStatus
	UserID          *int64
	SubmittedBefore *time.Time
	SubmittedAfter  *time.Time
	Cursor          *time.Time
	Limit           int
}

type KYCRequestRepository struct {
	db *gorm.DB
}

func NewKYCRequestRepository(db *gorm.DB) *KYCRequestRepository {
	return &KYCRequestRepository{db: db}
}

func (r *KYCRequestRepository) DB() *gorm.DB { return r.db }

func (r *KYCRequestRepository) GetByID(ctx context.Context, id int64) (*domain.KYCRequest, error) {
	var req domain.KYCRequest
	tx := r.db.WithContext(ctx).Preload("Steps").First(&req, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &req, nil
}

func (r *KYCRequestRepository) GetByUserID(ctx context.Context, userID int64) (*domain.KYCRequest, error) {
	var req domain.KYCRequest
	tx := r.db.WithContext(ctx).Preload("Steps").Where("user_id = ?", userID).First(&req)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &req, nil
}

// List returns a page of requests ordered by submitted_at DESC (unsubmitted
// rows last, matching the source system) with created_at DESC as tiebreak.
// The cursor is exclusive: submitted_at strictly before it.
func (r *KYCRequestRepository) List(ctx context.Context, f KYCRequestFilter) ([]domain.KYCRequest, error) {
	q := r.db.WithContext(ctx).Model(&domain.KYCRequest{})

	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.SubmittedBefore != nil {
		q = q.Where("submitted_at < ?", *f.SubmittedBefore)
	}
	if f.SubmittedAfter != nil {
		q = q.Where("submitted_at > ?", *f.SubmittedAfter)
	}
	if f.Cursor != nil {
		q = q.Where("submitted_at < ?", *f.Cursor)
	}

	var requests []domain.KYCRequest
	tx := q.Order("submitted_at DESC NULLS LAST").
		Order("created_at DESC").
		Limit(f.Limit).
		Preload("Steps").
		Find(&requests)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return requests, nil
}

type KYCStepRepository struct {
	db *gorm.DB
}

func NewKYCStepRepository(db *gorm.DB) *KYCStepRepository {
	return &KYCStepRepository{db: db}
}

// GetForRequest loads a step only when it belongs to the given request.
func (r *KYCStepRepository) GetForRequest(ctx context.Context, stepID, requestID int64) (*domain.KYCIdentityStep, error) {
	var step domain.KYCIdentityStep
	tx := r.db.WithContext(ctx).
		Where("id = ? AND kyc_user_request_id = ?", stepID, requestID).
		First(&step)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &step, nil
}

func (r *KYCStepRepository) Save(ctx context.Context, step *domain.KYCIdentityStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}
