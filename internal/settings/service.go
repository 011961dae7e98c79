package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/internal/users"
	"github.com/cafcollect/caf-backend/pkg/config"
	"github.com/cafcollect/caf-backend/pkg/db/models"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/security"
)

// defaultCommissionRate seeds the singleton on first read: 2.00 percent.
var defaultCommissionRate = decimal.New(200, -2)

var maxCommissionRate = decimal.NewFromInt(100)

// Service defines the settings and self-profile operations.
type Service interface {
	Get(ctx context.Context) (*models.Settings, error)
	UpdateCommission(ctx context.Context, input CommissionInput) (*models.Settings, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*models.User, error)
}

type service struct {
	repo     Repository
	users    users.Repository
	password config.PasswordConfig
}

// NewService builds the settings service.
func NewService(repo Repository, usersRepo users.Repository, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, users: usersRepo, password: password}, nil
}

// Get returns the singleton, creating it with the default rate on first call.
func (s *service) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.repo.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}

	created := &models.Settings{
		ID:             models.SettingsID,
		TauxCommission: defaultCommissionRate,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed settings")
	}
	return created, nil
}

func (s *service) UpdateCommission(ctx context.Context, input CommissionInput) (*models.Settings, error) {
	rate := input.TauxCommission
	if rate.IsNegative() || rate.GreaterThan(maxCommissionRate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Le taux de commission doit etre entre 0 et 100")
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	settings.TauxCommission = rate.Round(2)
	settings.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateRate(ctx, settings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update commission rate")
	}
	return settings, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Utilisateur introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	updates := map[string]any{}
	if input.Nom != nil {
		updates["nom"] = *input.Nom
	}
	if input.Telephone != nil {
		taken, err := s.users.TelephoneTaken(ctx, *input.Telephone, &user.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check telephone")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Ce numero de telephone est deja utilise")
		}
		updates["telephone"] = *input.Telephone
	}
	if input.MotDePasse != nil && *input.MotDePasse != "" {
		hash, err := security.HashPassword(*input.MotDePasse, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := s.users.Update(ctx, user.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
		}
	}

	updated, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload user")
	}
	return updated, nil
}
