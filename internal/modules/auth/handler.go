package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ethleaf/internal/pkg/response"
	"ethleaf/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/auth", h.Login)
}

// Login authenticates by email+password and returns {data:{token}}.
// A wrong email and a wrong password produce the same 400 response.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validator.Messages(req); msgs != nil {
		response.Errors(c, http.StatusBadRequest, msgs...)
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidLogin) {
			response.Errors(c, http.StatusBadRequest, "api.form.errors.invalid_login")
			return
		}
		response.Errors(c, http.StatusInternalServerError, "api.internal_error")
		return
	}

	response.Data(c, http.StatusOK, TokenResponse{Token: token})
}
