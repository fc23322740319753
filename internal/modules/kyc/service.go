package kyc

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"ethleaf/internal/domain"
	"ethleaf/internal/repository"
)

// Service owns the KYC lifecycle: request bootstrap, user step
// submissions with the aggregate-status cascade, and reviewer actions.
type Service struct {
	requests *repository.KYCRequestRepository
	steps    *repository.KYCStepRepository
}

func NewService(requests *repository.KYCRequestRepository, steps *repository.KYCStepRepository) *Service {
	return &Service{requests: requests, steps: steps}
}

// EnsureRequest guarantees the user has exactly one KYC request carrying
// one step per required type. Safe to call repeatedly: existing rows are
// left alone, only missing pieces are created.
func (s *Service) EnsureRequest(ctx context.Context, userID int64) error {
	return s.requests.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.EnsureRequestTx(tx, userID)
	})
}

// EnsureRequestTx is EnsureRequest inside the caller's transaction, so
// registration can roll back the user row when the bootstrap fails.
func (s *Service) EnsureRequestTx(tx *gorm.DB, userID int64) error {
	var req domain.KYCRequest
	err := tx.Where("user_id = ?", userID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		req = domain.KYCRequest{UserID: userID, Status: domain.KYCStatusToFill}
		if err := tx.Create(&req).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var existing []domain.KYCIdentityStep
	if err := tx.Select("type").Where("kyc_user_request_id = ?", req.ID).Find(&existing).Error; err != nil {
		return err
	}
	have := make(map[domain.KYCStepType]bool, len(existing))
	for _, st := range existing {
		have[st.Type] = true
	}

	var missing []domain.KYCIdentityStep
	for _, t := range domain.RequiredStepTypes {
		if !have[t] {
			missing = append(missing, domain.KYCIdentityStep{
				RequestID: req.ID,
				Type:      t,
				Status:    domain.StepStatusToFill,
			})
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return tx.Create(&missing).Error
}

// SubmitStep applies a user submission to a step and recomputes the
// parent request's aggregate status. The step mutation and the cascade
// run in one transaction so concurrent submissions cannot observe a
// stale sibling set and drop the "all filled" flip.
func (s *Service) SubmitStep(ctx context.Context, userID, requestID, stepID int64, values domain.StepValues) (*domain.KYCIdentityStep, *domain.KYCRequest, error) {
	var step domain.KYCIdentityStep

	err := s.requests.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND kyc_user_request_id = ?", stepID, requestID).First(&step).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCantUpdateStep
			}
			return err
		}

		// a step already in review or validated must first be reverted
		// by a reviewer
		if step.Status == domain.StepStatusToVerify || step.Status == domain.StepStatusValidated {
			return ErrCantUpdateStep
		}

		var req domain.KYCRequest
		if err := tx.Preload("Steps").First(&req, step.RequestID).Error; err != nil {
			return err
		}
		if req.Status == domain.KYCStatusRejected {
			return ErrCantUpdateStep
		}
		if req.UserID != userID {
			return ErrForbidden
		}

		now := time.Now()
		step.Value = values
		step.Status = domain.StepStatusToVerify
		step.SubmittedAt = &now
		if err := tx.Save(&step).Error; err != nil {
			return err
		}

		anyToFill := false
		for _, sibling := range req.Steps {
			status := sibling.Status
			if sibling.ID == step.ID {
				status = step.Status
			}
			if status == domain.StepStatusToFill {
				anyToFill = true
				break
			}
		}
		if anyToFill {
			return nil
		}

		return tx.Model(&domain.KYCRequest{}).
			Where("id = ?", req.ID).
			Updates(map[string]any{
				"status":       domain.KYCStatusToVerify,
				"submitted_at": now,
			}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	// reload the parent with fresh sibling states for the response
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	return &step, request, nil
}

// ListRequests pages requests for reviewers. Returns the page and the
// cursor for the next one (nil when the page is empty or ends on an
// unsubmitted request).
func (s *Service) ListRequests(ctx context.Context, f repository.KYCRequestFilter) ([]domain.KYCRequest, *time.Time, error) {
	requests, err := s.requests.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *time.Time
	if len(requests) > 0 {
		nextCursor = requests[len(requests)-1].SubmittedAt
	}
	return requests, nextCursor, nil
}

func (s *Service) GetRequest(ctx context.Context, id int64) (*domain.KYCRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

// ReviewStep applies a reviewer decision to a single step. No cascade:
// reviewers act on the request aggregate through ReviewRequest.
func (s *Service) ReviewStep(ctx context.Context, requestID, stepID int64, status domain.KYCStepStatus, comment *string) error {
	step, err := s.steps.GetForRequest(ctx, stepID, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStepNotFound
		}
		return err
	}

	now := time.Now()
	step.Status = status
	if comment != nil {
		step.Comment = *comment
	}
	step.ReviewedAt = &now
	return s.steps.Save(ctx, step)
}

// ReviewRequest is the explicit reviewer override of the aggregate
// status; it bypasses the derivation from steps.
func (s *Service) ReviewRequest(ctx context.Context, requestID int64, status domain.KYCStatus, comment *string) error {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return err
	}

	now := time.Now()
	updates := map[string]any{
		"status":      status,
		"reviewed_at": now,
	}
	if comment != nil {
		updates["comment"] = *comment
	}
	return s.requests.DB().WithContext(ctx).
		Model(&domain.KYCRequest{}).
		Where("id = ?", requestID).
		Updates(updates).Error
}
