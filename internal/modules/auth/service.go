package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(userID int64, role int) (string, error)
}

// Service contains the login logic.
type Service struct {
	users UserReader
	jwt   jwtService
}

func NewService(users UserReader, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Login checks the credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidLogin
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", ErrInvalidLogin
	}

	return s.jwt.GenerateToken(user.ID, int(user.Role))
}
