package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ethleaf/internal/domain"
	"ethleaf/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.GET("/users/me/notifications", h.List)
	authed.PUT("/users/me/notifications/:id/opened", h.MarkOpened)
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	notifications, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Errors(c, http.StatusInternalServerError, "api.internal_error")
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}

	response.Data(c, http.StatusOK, notifications)
}

func (h *Handler) MarkOpened(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Errors(c, http.StatusNotFound, "notification not found")
		return
	}

	userID := c.GetInt64("user_id")
	if err := h.service.MarkOpened(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Errors(c, http.StatusNotFound, "notification not found")
			return
		}
		response.Errors(c, http.StatusInternalServerError, "api.internal_error")
		return
	}

	response.Data(c, http.StatusOK, gin.H{})
}
