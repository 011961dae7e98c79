package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed settings repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := r.db.WithContext(ctx).
		Where("id = ?", models.SettingsID).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) Create(ctx context.Context, settings *models.Settings) error {
	return r.db.WithContext(ctx).Create(settings).Error
}

func (r *repository) UpdateRate(ctx context.Context, settings *models.Settings) error {
	return r.db.WithContext(ctx).
		Model(&models.Settings{}).
		Where("id = ?", models.SettingsID).
		Updates(map[string]any{
			"taux_commission": settings.TauxCommission,
			"updated_at":      settings.UpdatedAt,
		}).Error
}
