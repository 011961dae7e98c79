package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/config"
	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/pagination"
	"github.com/cafcollect/caf-backend/pkg/security"
)

// Service defines the admin-facing user management operations.
type Service interface {
	List(ctx context.Context, params pagination.Params, filters Filters) ([]models.User, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*Detail, error)
	Create(ctx context.Context, input CreateInput) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	password config.PasswordConfig
}

// NewService builds the users service.
func NewService(repo Repository, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, password: password}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) ([]models.User, int64, error) {
	items, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return items, total, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Utilisateur introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	stats, err := s.repo.Stats(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user stats")
	}

	return &Detail{User: *user, Stats: *stats}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	taken, err := s.repo.TelephoneTaken(ctx, input.Telephone, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check telephone")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Ce numero de telephone est deja utilise")
	}

	hash, err := security.HashPassword(input.MotDePasse, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Nom:          input.Nom,
		Telephone:    input.Telephone,
		PasswordHash: hash,
		Role:         input.Role,
		Zone:         normalizeZone(input.Zone),
		IsActive:     isActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.repo.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Utilisateur introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	updates := map[string]any{}

	if input.Telephone != nil {
		taken, err := s.repo.TelephoneTaken(ctx, *input.Telephone, &user.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check telephone")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Ce numero de telephone est deja utilise")
		}
		updates["telephone"] = *input.Telephone
		user.Telephone = *input.Telephone
	}
	if input.Nom != nil {
		updates["nom"] = *input.Nom
		user.Nom = *input.Nom
	}
	if input.Role != nil {
		updates["role"] = *input.Role
		user.Role = *input.Role
	}
	if input.Zone != nil {
		zone := normalizeZone(input.Zone)
		updates["zone"] = zone
		user.Zone = zone
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
		user.IsActive = *input.IsActive
	}
	if input.MotDePasse != nil && *input.MotDePasse != "" {
		hash, err := security.HashPassword(*input.MotDePasse, s.password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
		user.PasswordHash = hash
	}

	if len(updates) == 0 {
		return user, nil
	}
	updates["updated_at"] = time.Now().UTC()

	if err := s.repo.Update(ctx, user.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return user, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Utilisateur introuvable")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if user.Role == enums.UserRoleAdmin {
		count, err := s.repo.CountActiveAdmins(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count admins")
		}
		if count <= 1 {
			return pkgerrors.New(pkgerrors.CodeConflict, "Impossible de desactiver le dernier administrateur")
		}
	}

	updates := map[string]any{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	}
	if err := s.repo.Update(ctx, user.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate user")
	}
	return nil
}

func normalizeZone(zone *string) *string {
	if zone == nil || *zone == "" {
		return nil
	}
	return zone
}
