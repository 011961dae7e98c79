package recouvrements

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed recouvrement repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// sortColumns maps the API sort keys onto real columns; anything else
// falls back to created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"montant":   "montant",
	"status":    "status",
	"code":      "code",
}

func orderClause(sort, order string) string {
	column, ok := sortColumns[sort]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(order, "asc") {
		direction = "ASC"
	}
	return column + " " + direction
}

func (r *repository) List(ctx context.Context, params pagination.Params, scopeAgentID *uuid.UUID, filters Filters) ([]models.Recouvrement, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.Recouvrement{})
	if scopeAgentID != nil {
		query = query.Where("agent_id = ?", *scopeAgentID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Methode != nil {
		query = query.Where("methode_paiement = ?", *filters.Methode)
	}
	if filters.Categorie != nil {
		sub := r.db.Table("lignes_recouvrement").
			Select("recouvrement_id").
			Where("categorie = ?", *filters.Categorie)
		query = query.Where("id IN (?)", sub)
	}
	if filters.PDVID != nil {
		query = query.Where("point_de_vente_id = ?", *filters.PDVID)
	}
	if filters.AgentID != nil {
		query = query.Where("agent_id = ?", *filters.AgentID)
	}
	if filters.StartDate != nil {
		query = query.Where("created_at >= ?", filters.StartDate.Truncate(24*time.Hour))
	}
	if filters.EndDate != nil {
		// endDate is inclusive: everything strictly before the next day
		query = query.Where("created_at < ?", filters.EndDate.Truncate(24*time.Hour).Add(24*time.Hour))
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where(
			"(LOWER(code) LIKE ?"+
				" OR point_de_vente_id IN (SELECT id FROM points_de_vente WHERE LOWER(nom) LIKE ?)"+
				" OR agent_id IN (SELECT id FROM users WHERE LOWER(nom) LIKE ?))",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Recouvrement
	err := query.
		Preload("PointDeVente").
		Preload("Agent").
		Preload("Lignes").
		Order(orderClause(filters.Sort, filters.Order)).
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID, scopeAgentID *uuid.UUID) (*models.Recouvrement, error) {
	query := r.db.WithContext(ctx).
		Preload("PointDeVente").
		Preload("Agent").
		Preload("Lignes").
		Where("id = ?", id)
	if scopeAgentID != nil {
		query = query.Where("agent_id = ?", *scopeAgentID)
	}

	var rec models.Recouvrement
	if err := query.First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Recouvrement{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Create(ctx context.Context, rec *models.Recouvrement) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// TransitionStatus applies the one-shot decision with a conditional
// UPDATE so two concurrent admins cannot both win the race.
func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, status enums.RecouvrementStatus, validatedAt *time.Time) (int64, error) {
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if validatedAt != nil {
		updates["validated_at"] = *validatedAt
	}
	result := r.db.WithContext(ctx).
		Model(&models.Recouvrement{}).
		Where("id = ? AND status = ?", id, enums.RecouvrementStatusEnAttente).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
