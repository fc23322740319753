package kyc

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ethleaf/internal/domain"
	"ethleaf/internal/pkg/response"
	"ethleaf/internal/pkg/validator"
	"ethleaf/internal/repository"
)

const (
	defaultLimit = 40
	maxLimit     = 100
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterUserRoutes mounts the endpoint the owning user calls.
func (h *Handler) RegisterUserRoutes(authed *gin.RouterGroup) {
	authed.POST("/kyc/kyc-request/:id/steps/:step_id", h.SubmitStep)
}

// RegisterReviewerRoutes mounts the review surface; the group is expected
// to carry the reviewer role gate.
func (h *Handler) RegisterReviewerRoutes(reviewer *gin.RouterGroup) {
	reviewer.GET("/kyc-requests", h.ListRequests)
	reviewer.GET("/kyc-requests/:id", h.GetRequest)
	reviewer.PUT("/kyc-requests/:id/steps/:step_id", h.ReviewStep)
	reviewer.PUT("/kyc-requests/:id", h.ReviewRequest)
}

// SubmitStep handles POST /kyc/kyc-request/:id/steps/:step_id.
func (h *Handler) SubmitStep(c *gin.Context) {
	requestID, err1 := strconv.ParseInt(c.Param("id"), 10, 64)
	stepID, err2 := strconv.ParseInt(c.Param("step_id"), 10, 64)
	if err1 != nil || err2 != nil {
		response.Errors(c, http.StatusNotFound, "api.form.errors.cant_update_this_step")
		return
	}

	var req SubmitStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validator.Messages(req); msgs != nil {
		response.Errors(c, http.StatusBadRequest, msgs...)
		return
	}

	values := make(domain.StepValues, 0, len(req.Value))
	for _, v := range req.Value {
		values = append(values, domain.StepValue{
			Name:  v.Name,
			Value: v.Value,
			Type:  domain.ValueType(v.Type),
		})
	}

	userID := c.GetInt64("user_id")
	step, request, err := h.service.SubmitStep(c.Request.Context(), userID, requestID, stepID, values)
	if err != nil {
		switch {
		case errors.Is(err, ErrCantUpdateStep):
			response.Errors(c, http.StatusNotFound, "api.form.errors.cant_update_this_step")
		case errors.Is(err, ErrForbidden):
			response.Errors(c, http.StatusForbidden, "Forbidden")
		default:
			response.Errors(c, http.StatusInternalServerError, "an error occurred sending kyc step")
		}
		return
	}

	response.Data(c, http.StatusOK, StepResponse{
		KYCIdentityStep: *step,
		KYCUserRequest:  request,
	})
}

// ListRequests handles GET /kyc/kyc-requests with filters and
// cursor-based pagination.
func (h *Handler) ListRequests(c *gin.Context) {
	filter := parseListFilter(c)

	requests, nextCursor, err := h.service.ListRequests(c.Request.Context(), filter)
	if err != nil {
		response.Errors(c, http.StatusBadRequest, "api.form.errors.error_get_kyc_requests")
		return
	}

	var cursor *string
	if nextCursor != nil {
		v := nextCursor.UTC().Format(time.RFC3339Nano)
		cursor = &v
	}
	if requests == nil {
		requests = []domain.KYCRequest{}
	}

	c.JSON(http.StatusOK, ListResponse{
		PerPage:    filter.Limit,
		NextCursor: cursor,
		Data:       requests,
	})
}

func (h *Handler) GetRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Errors(c, http.StatusNotFound, "api.form.errors.kyc_request_dont_exist")
		return
	}

	request, err := h.service.GetRequest(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			response.Errors(c, http.StatusNotFound, "api.form.errors.kyc_request_dont_exist")
			return
		}
		response.Errors(c, http.StatusInternalServerError, "api.form.errors.error_get_kyc_request")
		return
	}

	response.Data(c, http.StatusOK, request)
}

// ReviewStep handles PUT /kyc/kyc-requests/:id/steps/:step_id. An invalid
// status value is rejected before any lookup happens.
func (h *Handler) ReviewStep(c *gin.Context) {
	requestID, err1 := strconv.ParseInt(c.Param("id"), 10, 64)
	stepID, err2 := strconv.ParseInt(c.Param("step_id"), 10, 64)
	if err1 != nil || err2 != nil {
		response.Errors(c, http.StatusNotFound, "api.form.errors.step_doesnt_exist")
		return
	}

	var body ReviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Errors(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Status == nil || !domain.KYCStepStatus(*body.Status).Valid() {
		response.Errors(c, http.StatusBadRequest, "invalid status")
		return
	}

	err := h.service.ReviewStep(c.Request.Context(), requestID, stepID, domain.KYCStepStatus(*body.Status), body.Comment)
	if err != nil {
		if errors.Is(err, ErrStepNotFound) {
			response.Errors(c, http.StatusNotFound, "api.form.errors.step_doesnt_exist")
			return
		}
		response.Errors(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	response.Data(c, http.StatusOK, gin.H{})
}

// ReviewRequest handles PUT /kyc/kyc-requests/:id, the explicit reviewer
// override of the aggregate status.
func (h *Handler) ReviewRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Errors(c, http.StatusNotFound, "api.form.errors.request_doesnt_exist")
		return
	}

	var body ReviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Errors(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Status == nil || !domain.KYCStatus(*body.Status).Valid() {
		response.Errors(c, http.StatusBadRequest, "invalid status")
		return
	}

	err = h.service.ReviewRequest(c.Request.Context(), id, domain.KYCStatus(*body.Status), body.Comment)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			response.Errors(c, http.StatusNotFound, "api.form.errors.request_doesnt_exist")
			return
		}
		response.Errors(c, http.StatusInternalServerError, "An unexpected error occurred")
		return
	}

	response.Data(c, http.StatusOK, gin.H{})
}

// parseListFilter builds the listing filter. Malformed values degrade to
// "no filter" instead of erroring; that behavior is part of the API
// contract and must not be tightened here.
func parseListFilter(c *gin.Context) repository.KYCRequestFilter {
	f := repository.KYCRequestFilter{Limit: defaultLimit}

	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			f.Limit = n
		}
	}
	if f.Limit < 1 {
		f.Limit = 1
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if raw := c.Query("status"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			status := domain.KYCStatus(n)
			f.Status = &status
		}
	}
	if raw := c.Query("user"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.UserID = &id
		}
	}
	if raw := c.Query("submitted_before"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.SubmittedBefore = &t
		}
	}
	if raw := c.Query("submitted_after"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.SubmittedAfter = &t
		}
	}
	if raw := c.Query("cursor"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.Cursor = &t
		}
	}

	return f
}
