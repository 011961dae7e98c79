package pdv

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

// Repository defines persistence operations for the points_de_vente table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, params pagination.Params, scopeAgentID *uuid.UUID, filters Filters) ([]models.PointDeVente, int64, error)
	FindByID(ctx context.Context, id uuid.UUID, scopeAgentID *uuid.UUID) (*models.PointDeVente, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, pdv *models.PointDeVente) (*models.PointDeVente, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasRecouvrements(ctx context.Context, id uuid.UUID) (bool, error)
}

// AgentChecker resolves the assignee on admin-side PDV creation.
type AgentChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
