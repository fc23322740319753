package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ethleaf/internal/domain"
	"ethleaf/internal/pkg/response"
	"ethleaf/internal/pkg/storage"
	"ethleaf/internal/pkg/validator"
)

var kycPersonFolders = map[string]bool{
	storage.FolderKYCFacePicture:        true,
	storage.FolderKYCDriverLicenseFront: true,
	storage.FolderKYCDriverLicenseBack:  true,
}

type Handler struct {
	service   *Service
	presigner Presigner
}

func NewHandler(service *Service, presigner Presigner) *Handler {
	return &Handler{service: service, presigner: presigner}
}

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.POST("/users", h.CreateUser)
}

func (h *Handler) RegisterProtectedRoutes(authed *gin.RouterGroup) {
	users := authed.Group("/users")
	{
		users.GET("/me", h.GetMe)
		users.GET("", h.ListUsers)
		users.POST("/me/files", h.UserFileRequest)
		users.POST("/me/kyc/person/files", h.KYCPersonFileRequest)
	}
}

// CreateUser handles public registration. A duplicate email or phone is
// a 400 with a field-specific message and creates nothing.
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validator.Messages(req); msgs != nil {
		response.Errors(c, http.StatusBadRequest, msgs...)
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			response.Errors(c, http.StatusBadRequest, "api.user.email_already_exists")
		case errors.Is(err, ErrPhoneExists):
			response.Errors(c, http.StatusBadRequest, "api.user.phone_already_exists")
		default:
			response.Errors(c, http.StatusInternalServerError, "api.internal_error")
		}
		return
	}

	response.Data(c, http.StatusCreated, u)
}

func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")

	u, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		response.Errors(c, http.StatusInternalServerError, "api.internal_error")
		return
	}

	response.Data(c, http.StatusOK, u)
}

func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "40"))

	users, page, perPage, total, err := h.service.ListUsers(c.Request.Context(), page, perPage)
	if err != nil {
		response.Errors(c, http.StatusInternalServerError, "api.internal_error")
		return
	}
	if users == nil {
		users = []domain.User{}
	}

	c.JSON(http.StatusOK, ListResponse{
		PerPage: perPage,
		Page:    page,
		Total:   total,
		Data:    users,
	})
}

// UserFileRequest issues an upload URL for the avatar folder only.
func (h *Handler) UserFileRequest(c *gin.Context) {
	h.fileRequest(c, map[string]bool{storage.FolderUserAvatar: true})
}

// KYCPersonFileRequest issues an upload URL for the KYC picture folders.
func (h *Handler) KYCPersonFileRequest(c *gin.Context) {
	h.fileRequest(c, kycPersonFolders)
}

func (h *Handler) fileRequest(c *gin.Context, allowed map[string]bool) {
	var req FileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msgs := validator.Messages(req); msgs != nil {
		response.Errors(c, http.StatusBadRequest, msgs...)
		return
	}
	if !allowed[req.Folder] {
		response.Errors(c, http.StatusBadRequest, "Invalid folder")
		return
	}

	userID := c.GetInt64("user_id")
	target, err := h.presigner.PresignUpload(c.Request.Context(), req.Folder, req.ContentType, userID)
	if err != nil {
		response.Errors(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, target)
}
