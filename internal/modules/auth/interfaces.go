package auth

import (
	"context"

	"ethleaf/internal/domain"
)

// UserReader — only the lookup the auth service needs.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
