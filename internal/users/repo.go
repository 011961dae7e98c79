package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a users repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters Filters) ([]models.User, int64, error) {
	params = params.Normalize()

	query := r.db.WithContext(ctx).Model(&models.User{})
	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("(LOWER(nom) LIKE ? OR LOWER(telephone) LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.User
	err := query.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByTelephone(ctx context.Context, telephone string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("telephone = ?", telephone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) TelephoneTaken(ctx context.Context, telephone string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("telephone = ?", telephone)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_active = ?", enums.UserRoleAdmin, true).
		Count(&count).Error
	return count, err
}

func (r *repository) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	var rec struct {
		Total      int64
		Montant    int64
		Commission int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Recouvrement{}).
		Select("COUNT(id) AS total, COALESCE(SUM(montant), 0) AS montant, COALESCE(SUM(commission), 0) AS commission").
		Where("agent_id = ?", userID).
		Scan(&rec).Error
	if err != nil {
		return nil, err
	}

	var totalPDV int64
	err = r.db.WithContext(ctx).
		Model(&models.PointDeVente{}).
		Where("agent_id = ?", userID).
		Count(&totalPDV).Error
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalRecouvrements: rec.Total,
		MontantTotal:       rec.Montant,
		CommissionTotale:   rec.Commission,
		TotalPDV:           totalPDV,
	}, nil
}
