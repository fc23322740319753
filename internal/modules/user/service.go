package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ethleaf/internal/domain"
)

const bcryptCost = 10

type Service struct {
	users UserRepositoryInterface
	kyc   KYCBootstrapper
}

func NewService(users UserRepositoryInterface, kyc KYCBootstrapper) *Service {
	return &Service{users: users, kyc: kyc}
}

// Register creates a user with unique email/phone and bootstraps its KYC
// request. Returns the user with the request and steps populated.
func (s *Service) Register(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.FindByEmailOrPhone(ctx, email, req.Phone)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Email == email {
			return nil, ErrEmailExists
		}
		return nil, ErrPhoneExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     email,
		Phone:     req.Phone,
		Password:  string(hashed),
		Role:      domain.RoleUser,
	}

	// the user row and its KYC bootstrap commit together: a failed
	// bootstrap must not leave a user without a request, since the
	// duplicate-email check would block any retry
	err = s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return s.kyc.EnsureRequestTx(tx, u.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.users.GetWithRelations(ctx, u.ID)
}

// GetMe returns the current user with KYC request and notifications.
func (s *Service) GetMe(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetWithRelations(ctx, userID)
}

// ListUsers pages all users; page starts at 1, perPage clamps to [1,100].
func (s *Service) ListUsers(ctx context.Context, page, perPage int) ([]domain.User, int, int, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 40
	}
	if perPage > 100 {
		perPage = 100
	}

	users, err := s.users.List(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return users, page, perPage, total, nil
}
