package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
)

// Repository defines persistence operations for the settings singleton.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context) (*models.Settings, error)
	Create(ctx context.Context, settings *models.Settings) error
	UpdateRate(ctx context.Context, settings *models.Settings) error
}
