package kyc

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ethleaf/internal/database"
	"ethleaf/internal/domain"
	"ethleaf/internal/repository"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, database.Migrate(db))

	return NewService(
		repository.NewKYCRequestRepository(db),
		repository.NewKYCStepRepository(db),
	), db
}

func createUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()

	u := &domain.User{
		Firstname: "Test",
		Lastname:  "User",
		Email:     email,
		Phone:     "+7" + email,
		Password:  "x",
		Role:      domain.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func stepByType(t *testing.T, req *domain.KYCRequest, stepType domain.KYCStepType) *domain.KYCIdentityStep {
	t.Helper()
	for i := range req.Steps {
		if req.Steps[i].Type == stepType {
			return &req.Steps[i]
		}
	}
	t.Fatalf("no step of type %d in request %d", stepType, req.ID)
	return nil
}

func submitValues() domain.StepValues {
	return domain.StepValues{
		{Name: "picture", Value: "https://cdn.example.com/f.jpg", Type: domain.ValueTypePhoto},
	}
}

func TestService_EnsureRequest_Idempotent(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u := createUser(t, db, "a@example.com")

	require.NoError(t, svc.EnsureRequest(ctx, u.ID))
	require.NoError(t, svc.EnsureRequest(ctx, u.ID))

	var requests []domain.KYCRequest
	require.NoError(t, db.Preload("Steps").Where("user_id = ?", u.ID).Find(&requests).Error)

	require.Len(t, requests, 1)
	assert.Equal(t, domain.KYCStatusToFill, requests[0].Status)
	assert.Len(t, requests[0].Steps, len(domain.RequiredStepTypes))

	seen := map[domain.KYCStepType]int{}
	for _, s := range requests[0].Steps {
		seen[s.Type]++
		assert.Equal(t, domain.StepStatusToFill, s.Status)
	}
	for _, typ := range domain.RequiredStepTypes {
		assert.Equal(t, 1, seen[typ], "exactly one step per type")
	}
}

func TestService_EnsureRequest_CompletesPartialStepSet(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u := createUser(t, db, "partial@example.com")

	// request created but steps never attached (interrupted bootstrap)
	req := domain.KYCRequest{UserID: u.ID, Status: domain.KYCStatusToFill}
	require.NoError(t, db.Create(&req).Error)

	require.NoError(t, svc.EnsureRequest(ctx, u.ID))

	var count int64
	require.NoError(t, db.Model(&domain.KYCIdentityStep{}).Where("kyc_user_request_id = ?", req.ID).Count(&count).Error)
	assert.EqualValues(t, len(domain.RequiredStepTypes), count)
}

func TestService_SubmitStep_MarksStepToVerify(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u := createUser(t, db, "submit@example.com")
	require.NoError(t, svc.EnsureRequest(ctx, u.ID))

	req, err := repository.NewKYCRequestRepository(db).GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	step := stepByType(t, req, domain.StepTypeFacePhoto)

	updated, parent, err := svc.SubmitStep(ctx, u.ID, req.ID, step.ID, submitValues())
	require.NoError(t, err)

	assert.Equal(t, domain.StepStatusToVerify, updated.Status)
	assert.NotNil(t, updated.SubmittedAt)
	assert.Len(t, updated.Value, 1)

	// two siblings still TO_FILL, so the aggregate must not move yet
	assert.Equal(t, domain.KYCStatusToFill, parent.Status)
	assert.Nil(t, parent.SubmittedAt)
	assert.Len(t, parent.Steps, len(domain.RequiredStepTypes))
}

func TestService_SubmitStep_LastStepCascadesToRequest(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u := createUser(t, db, "cascade@example.com")
	require.NoError(t, svc.EnsureRequest(ctx, u.ID))

	req, err := repository.NewKYCRequestRepository(db).GetByUserID(ctx, u.ID)
	require.NoError(t, err)

	var parent *domain.KYCRequest
	for _, typ := range domain.RequiredStepTypes {
		step := stepByType(t, req, typ)
		_, parent, err = svc.SubmitStep(ctx, u.ID, req.ID, step.ID, submitValues())
		require.NoError(t, err)
	}

	assert.Equal(t, domain.KYCStatusToVerify, parent.Status)
	assert.NotNil(t, parent.SubmittedAt)
}

func TestService_SubmitStep_RejectsResubmission(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u := createUser(t, db, "resubmit@example.com")
	require.NoError(t, svc.EnsureRequest(ctx, u.ID))

	req, err := repository.NewKYCRequestRepository(db).GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	step := stepByType(t, req, domain.StepTypeBirthDate)

	_, _, err = svc.SubmitStep(ctx, u.ID, req.ID, step.ID, submitValues())
	require.NoError(t, err)

	// TO_VERIFY steps cannot be resubmitted
	_, _, err = svc.SubmitStep(ctx, u.ID, req.ID, step.ID, submitValues())
	assert.ErrorIs(t, err, ErrCantUpdateStep)

	// neither can VALIDATED ones
	require.NoError(t, svc.ReviewStep(ctx, req.ID, step.ID, domain.StepStatusValidated, nil))
	_, _, err = svc.SubmitStep(ctx, u.ID, req.ID, step.ID, submitValues())
	assert.ErrorIs(t, err, ErrCantUpdateStep)

	// a reviewer reverting to TO_FILL reopens the step
	require.NoError(t, svc.ReviewStep(ctx, req.ID, step.ID, domain.StepStatusToFill, nil))
	_, _, err = svc.SubmitStep(ctx, u.ID, req.ID, step.ID, submitValues())
	assert.NoError(t, err)
}

func TestService_SubmitStep_ForeignUserForbidden(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	require.NoError(t, svc.EnsureRequest(ctx, owner.ID))

	req, err := repository.NewKYCRequestRepository(db).GetByUserID(ctx, owner.ID)
	require.NoError(t, err)
	step := stepByType(t, req, domain.StepTypeFacePhoto)

	_, _, err = svc.SubmitStep(ctx, other.ID, req.ID, step.ID, submitValues())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_SubmitStep_RejectedRequestLocked(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u := createUser(t, db, "rejected@example.com")
	require.NoError(t, svc.EnsureRequest(ctx, u.ID))

	req, err := repository.NewKYCRequestRepository(db).GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, svc.ReviewRequest(ctx, req.ID, domain.KYCStatusRejected, nil))

	step := stepByType(t, req, domain.StepTypeFacePhoto)
	_, _, err = svc.SubmitStep(ctx, u.ID, req.ID, step.ID, submitValues())
	assert.ErrorIs(t, err, ErrCantUpdateStep)
}

func TestService_SubmitStep_WrongPairingNotFound(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	a := createUser(t, db, "pair-a@example.com")
	b := createUser(t, db, "pair-b@example.com")
	require.NoError(t, svc.EnsureRequest(ctx, a.ID))
	require.NoError(t, svc.EnsureRequest(ctx, b.ID))

	reqA, err := repository.NewKYCRequestRepository(db).GetByUserID(ctx, a.ID)
	require.NoError(t, err)
	reqB, err := repository.NewKYCRequestRepository(db).GetByUserID(ctx, b.ID)
	require.NoError(t, err)

	// step of B's request submitted against A's request id
	stepB := stepByType(t, reqB, domain.StepTypeFacePhoto)
	_, _, err = svc.SubmitStep(ctx, b.ID, reqA.ID, stepB.ID, submitValues())
	assert.ErrorIs(t, err, ErrCantUpdateStep)
}

func TestService_ReviewStep_SetsStatusCommentReviewedAt(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u := createUser(t, db, "review@example.com")
	require.NoError(t, svc.EnsureRequest(ctx, u.ID))

	req, err := repository.NewKYCRequestRepository(db).GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	step := stepByType(t, req, domain.StepTypeDriverLicense)

	comment := "blurry picture"
	require.NoError(t, svc.ReviewStep(ctx, req.ID, step.ID, domain.StepStatusRejected, &comment))

	var got domain.KYCIdentityStep
	require.NoError(t, db.First(&got, step.ID).Error)
	assert.Equal(t, domain.StepStatusRejected, got.Status)
	assert.Equal(t, comment, got.Comment)
	assert.NotNil(t, got.ReviewedAt)

	// reviewing a step never touches the parent request
	var parent domain.KYCRequest
	require.NoError(t, db.First(&parent, req.ID).Error)
	assert.Equal(t, domain.KYCStatusToFill, parent.Status)
	assert.Nil(t, parent.ReviewedAt)
}

func TestService_ReviewStep_NotFound(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u := createUser(t, db, "review-nf@example.com")
	require.NoError(t, svc.EnsureRequest(ctx, u.ID))

	req, err := repository.NewKYCRequestRepository(db).GetByUserID(ctx, u.ID)
	require.NoError(t, err)

	err = svc.ReviewStep(ctx, req.ID, 99999, domain.StepStatusValidated, nil)
	assert.ErrorIs(t, err, ErrStepNotFound)
}

func TestService_ReviewRequest_Override(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	u := createUser(t, db, "override@example.com")
	require.NoError(t, svc.EnsureRequest(ctx, u.ID))

	req, err := repository.NewKYCRequestRepository(db).GetByUserID(ctx, u.ID)
	require.NoError(t, err)

	comment := "docs incomplete"
	require.NoError(t, svc.ReviewRequest(ctx, req.ID, domain.KYCStatusMissing, &comment))

	var got domain.KYCRequest
	require.NoError(t, db.First(&got, req.ID).Error)
	// explicit override, even though every step is still TO_FILL
	assert.Equal(t, domain.KYCStatusMissing, got.Status)
	assert.Equal(t, comment, got.Comment)
	assert.NotNil(t, got.ReviewedAt)

	assert.ErrorIs(t, svc.ReviewRequest(ctx, 99999, domain.KYCStatusValidated, nil), ErrRequestNotFound)
}

func TestService_ListRequests_CursorPagination(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 4; i++ {
		u := createUser(t, db, fmt.Sprintf("page%d@example.com", i))
		ts := base.Add(-time.Duration(i) * time.Hour) // t1 > t2 > t3 > t4
		req := domain.KYCRequest{
			UserID:      u.ID,
			Status:      domain.KYCStatusToVerify,
			SubmittedAt: &ts,
		}
		require.NoError(t, db.Create(&req).Error)
		ids = append(ids, req.ID)
	}

	page1, cursor1, err := svc.ListRequests(ctx, repository.KYCRequestFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, ids[0], page1[0].ID)
	assert.Equal(t, ids[1], page1[1].ID)
	require.NotNil(t, cursor1)
	assert.True(t, cursor1.Equal(base.Add(-1*time.Hour)))

	page2, cursor2, err := svc.ListRequests(ctx, repository.KYCRequestFilter{Limit: 2, Cursor: cursor1})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, ids[2], page2[0].ID)
	assert.Equal(t, ids[3], page2[1].ID)
	require.NotNil(t, cursor2)

	page3, cursor3, err := svc.ListRequests(ctx, repository.KYCRequestFilter{Limit: 2, Cursor: cursor2})
	require.NoError(t, err)
	assert.Empty(t, page3)
	assert.Nil(t, cursor3)
}

func TestService_ListRequests_Filters(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	u1 := createUser(t, db, "f1@example.com")
	u2 := createUser(t, db, "f2@example.com")
	require.NoError(t, db.Create(&domain.KYCRequest{UserID: u1.ID, Status: domain.KYCStatusToVerify, SubmittedAt: &ts}).Error)
	require.NoError(t, db.Create(&domain.KYCRequest{UserID: u2.ID, Status: domain.KYCStatusValidated, SubmittedAt: &ts}).Error)

	status := domain.KYCStatusValidated
	got, _, err := svc.ListRequests(ctx, repository.KYCRequestFilter{Limit: 40, Status: &status})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, u2.ID, got[0].UserID)

	got, _, err = svc.ListRequests(ctx, repository.KYCRequestFilter{Limit: 40, UserID: &u1.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, u1.ID, got[0].UserID)
}
