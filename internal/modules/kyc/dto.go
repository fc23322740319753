package kyc

import "ethleaf/internal/domain"

type StepValueInput struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
	Type  int    `json:"type" validate:"required"`
}

type SubmitStepRequest struct {
	Type  int              `json:"type" validate:"required"`
	Value []StepValueInput `json:"value" validate:"required,min=1,dive"`
}

// ReviewBody is shared by the step and request review endpoints.
type ReviewBody struct {
	Status  *int    `json:"status" validate:"required"`
	Comment *string `json:"comment"`
}

// StepResponse is the submitted step together with its parent request
// (which carries all sibling steps).
type StepResponse struct {
	domain.KYCIdentityStep
	KYCUserRequest *domain.KYCRequest `json:"kyc_user_request"`
}

type ListResponse struct {
	PerPage    int                 `json:"per_page"`
	NextCursor *string             `json:"next_cursor"`
	Data       []domain.KYCRequest `json:"data"`
}
