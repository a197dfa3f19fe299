package auth

import (
	"context"
	"errors"

	"go-console/internal/common/models"
	"go-console/internal/features/user"
	"go-console/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	Users user.UserService
}

func NewAuthService(users user.UserService) AuthService {
	return &AuthServiceImpl{
		Users: users,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	return s.Users.CreateUser(ctx, username, password, email, []string{"user"})
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if u.Status != "active" {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(u.ID, u.Username, u.Roles)
	if err != nil {
		return "", err
	}

	_ = s.Users.RecordLogin(ctx, u.ID)

	return token, nil
}
