package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	repo "github.com/oksasatya/farm-registry/internal/domain/repository"
	"github.com/oksasatya/farm-registry/internal/domain/shared"
	"github.com/oksasatya/farm-registry/pkg/helpers"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgEmailTaken         = "email already registered"
)

type AuthService struct {
	Repo   repo.AdminRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(r repo.AdminRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: r, JWT: jwt, Logger: logger}
}

type LoginResult struct {
	AccessToken string        `json:"accessToken"`
	ExpiresAt   time.Time     `json:"expiresAt"`
	Admin       *entity.Admin `json:"admin"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*entity.Admin, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, shared.NewValidation("email and password are required")
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, shared.Wrap(err, "hash password")
	}
	a := &entity.Admin{Email: email, Password: hash}
	if err := s.Repo.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, shared.NewConflict(msgEmailTaken)
		}
		return nil, shared.Wrap(err, "create admin")
	}
	return a, nil
}

// Login checks the credentials and issues an access token. Unknown emails
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	a, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, shared.NewAuth(msgInvalidCredentials)
		}
		return nil, shared.Wrap(err, "load admin")
	}
	if !helpers.CheckPassword(a.Password, password) {
		return nil, shared.NewAuth(msgInvalidCredentials)
	}
	token, exp, err := s.JWT.GenerateAccessToken(a.ID, a.Email)
	if err != nil {
		return nil, shared.Wrap(err, "sign access token")
	}
	if s.Logger != nil {
		s.Logger.WithField("admin_id", a.ID).Info("admin logged in")
	}
	return &LoginResult{AccessToken: token, ExpiresAt: exp, Admin: a}, nil
}
