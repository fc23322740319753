package user

import (
	"context"

	"gorm.io/gorm"

	"ethleaf/internal/domain"
	"ethleaf/internal/pkg/storage"
)

// UserRepositoryInterface — only the methods the user service uses.
type UserRepositoryInterface interface {
	DB() *gorm.DB
	FindByEmailOrPhone(ctx context.Context, email, phone string) (*domain.User, error)
	GetWithRelations(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}

// KYCBootstrapper creates the user's KYC request and its required steps
// inside the registration transaction.
type KYCBootstrapper interface {
	EnsureRequestTx(tx *gorm.DB, userID int64) error
}

// Presigner issues upload URLs; implemented by the storage package.
type Presigner interface {
	PresignUpload(ctx context.Context, folder, contentType string, userID int64) (*storage.UploadTarget, error)
}
