package pdv

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a PDV repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, params pagination.Params, scopeAgentID *uuid.UUID, filters Filters) ([]models.PointDeVente, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.PointDeVente{})
	if scopeAgentID != nil {
		query = query.Where("agent_id = ?", *scopeAgentID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.AgentID != nil {
		query = query.Where("agent_id = ?", *filters.AgentID)
	}
	if filters.Commune != "" {
		query = query.Where("commune = ?", filters.Commune)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where(
			"(LOWER(nom) LIKE ? OR LOWER(code) LIKE ? OR LOWER(proprietaire_nom) LIKE ?)",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.PointDeVente
	err := query.
		Preload("Agent").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID, scopeAgentID *uuid.UUID) (*models.PointDeVente, error) {
	query := r.db.WithContext(ctx).Preload("Agent").Where("id = ?", id)
	if scopeAgentID != nil {
		query = query.Where("agent_id = ?", *scopeAgentID)
	}
	var pdv models.PointDeVente
	if err := query.First(&pdv).Error; err != nil {
		return nil, err
	}
	return &pdv, nil
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PointDeVente{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Create(ctx context.Context, pdv *models.PointDeVente) (*models.PointDeVente, error) {
	if err := r.db.WithContext(ctx).Create(pdv).Error; err != nil {
		return nil, err
	}
	return pdv, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PointDeVente{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.PointDeVente{}).Error
}

func (r *repository) HasRecouvrements(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Recouvrement{}).
		Where("point_de_vente_id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
