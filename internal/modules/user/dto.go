package user

import "ethleaf/internal/domain"

type CreateUserRequest struct {
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

// FileRequest asks for a presigned upload URL. The filename is accepted
// for API compatibility but ignored: the server generates the object name.
type FileRequest struct {
	Folder      string `json:"folder" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	Filename    string `json:"filename" validate:"required"`
}

type ListResponse struct {
	PerPage int           `json:"per_page"`
	Page    int           `json:"page"`
	Total   int64         `json:"total"`
	Data    []domain.User `json:"data"`
}
