package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/internal/users"
	pkgauth "github.com/cafcollect/caf-backend/pkg/auth"
	"github.com/cafcollect/caf-backend/pkg/config"
	"github.com/cafcollect/caf-backend/pkg/db/models"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/security"
)

// LoginInput carries the credentials posted to /auth/login.
type LoginInput struct {
	Telephone  string `json:"telephone" validate:"required"`
	MotDePasse string `json:"motDePasse" validate:"required"`
}

// LoginResult bundles the authenticated user and its access token.
type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Service implements phone + password authentication.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

type service struct {
	users users.Repository
	jwt   config.JWTConfig
}

// NewService builds the auth service.
func NewService(usersRepo users.Repository, jwt config.JWTConfig) (Service, error) {
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{users: usersRepo, jwt: jwt}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByTelephone(ctx, input.Telephone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Identifiants invalides")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.MotDePasse, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Identifiants invalides")
	}

	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Compte desactive")
	}

	token, err := pkgauth.MintAccessToken(s.jwt, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	return &LoginResult{User: user, Token: token}, nil
}
