package recouvrements

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

// Repository defines persistence operations for the recouvrements table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, params pagination.Params, scopeAgentID *uuid.UUID, filters Filters) ([]models.Recouvrement, int64, error)
	FindByID(ctx context.Context, id uuid.UUID, scopeAgentID *uuid.UUID) (*models.Recouvrement, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, rec *models.Recouvrement) error
	TransitionStatus(ctx context.Context, id uuid.UUID, status enums.RecouvrementStatus, validatedAt *time.Time) (int64, error)
}

// TxRunner wraps a function in a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PDVFinder resolves the target point of sale when recording a collection.
type PDVFinder interface {
	FindByID(ctx context.Context, id uuid.UUID, scopeAgentID *uuid.UUID) (*models.PointDeVente, error)
}

// RateProvider supplies the current global commission settings.
type RateProvider interface {
	Get(ctx context.Context) (*models.Settings, error)
}
