package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

// Repository defines persistence operations for the users table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, params pagination.Params, filters Filters) ([]models.User, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByTelephone(ctx context.Context, telephone string) (*models.User, error)
	TelephoneTaken(ctx context.Context, telephone string, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CountActiveAdmins(ctx context.Context) (int64, error)
	Stats(ctx context.Context, userID uuid.UUID) (*Stats, error)
}
