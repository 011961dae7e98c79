package rapports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds the gorm-backed reporting repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// windowed applies the inclusive day range on the given column.
func windowed(query *gorm.DB, window DateRange, column string) *gorm.DB {
	if window.Start != nil {
		query = query.Where(column+" >= ?", window.Start.Truncate(24*time.Hour))
	}
	if window.End != nil {
		query = query.Where(column+" < ?", window.End.Truncate(24*time.Hour).Add(24*time.Hour))
	}
	return query
}

func (r *repository) Totals(ctx context.Context, window DateRange, agentID *uuid.UUID) (*totalsRow, error) {
	query := r.db.WithContext(ctx).Model(&models.Recouvrement{})
	query = windowed(query, window, "created_at")
	if agentID != nil {
		query = query.Where("agent_id = ?", *agentID)
	}

	var row totalsRow
	err := query.Select(
		"COUNT(id) AS total",
		"COALESCE(SUM(montant), 0) AS montant",
		"COALESCE(SUM(commission), 0) AS commission",
		"COALESCE(SUM(CASE WHEN status = 'EN_ATTENTE' THEN 1 ELSE 0 END), 0) AS en_attente",
		"COALESCE(SUM(CASE WHEN status = 'VALIDE' THEN 1 ELSE 0 END), 0) AS valides",
		"COALESCE(SUM(CASE WHEN status = 'REJETE' THEN 1 ELSE 0 END), 0) AS rejetes",
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ParJour(ctx context.Context, window DateRange) ([]JourPoint, error) {
	query := r.db.WithContext(ctx).Model(&models.Recouvrement{})
	query = windowed(query, window, "created_at")

	var points []JourPoint
	err := query.
		Select(
			"CAST(DATE(created_at) AS TEXT) AS date",
			"COALESCE(SUM(montant), 0) AS montant",
			"COUNT(id) AS count",
		).
		Group("DATE(created_at)").
		Order("DATE(created_at) ASC").
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (r *repository) ParCategorie(ctx context.Context, window DateRange) ([]CategorieItem, error) {
	query := r.db.WithContext(ctx).
		Table("lignes_recouvrement").
		Joins("JOIN recouvrements ON recouvrements.id = lignes_recouvrement.recouvrement_id")
	query = windowed(query, window, "recouvrements.created_at")

	var items []CategorieItem
	err := query.
		Select(
			"lignes_recouvrement.categorie AS categorie",
			"COALESCE(SUM(lignes_recouvrement.quantite), 0) AS quantite",
			"COALESCE(SUM(lignes_recouvrement.sous_total), 0) AS montant",
		).
		Group("lignes_recouvrement.categorie").
		Order("montant DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Label = items[i].Categorie.Label()
	}
	return items, nil
}

func (r *repository) ParMethode(ctx context.Context, window DateRange) ([]MethodeItem, error) {
	query := r.db.WithContext(ctx).Model(&models.Recouvrement{})
	query = windowed(query, window, "created_at")

	var items []MethodeItem
	err := query.
		Select(
			"methode_paiement AS methode",
			"COUNT(id) AS count",
			"COALESCE(SUM(montant), 0) AS total",
		).
		Group("methode_paiement").
		Order("total DESC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Label = items[i].Methode.Label()
	}
	return items, nil
}

func (r *repository) TopAgents(ctx context.Context, window DateRange, limit int) ([]TopAgent, error) {
	query := r.db.WithContext(ctx).
		Table("recouvrements").
		Joins("JOIN users ON users.id = recouvrements.agent_id")
	query = windowed(query, window, "recouvrements.created_at")

	var items []TopAgent
	err := query.
		Select(
			"recouvrements.agent_id AS agent_id",
			"users.nom AS nom",
			"COUNT(recouvrements.id) AS total_recouvrements",
			"COALESCE(SUM(recouvrements.montant), 0) AS montant_total",
			"COALESCE(SUM(recouvrements.commission), 0) AS commission_totale",
		).
		Group("recouvrements.agent_id, users.nom").
		Order("montant_total DESC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) TopPDVs(ctx context.Context, window DateRange, limit int) ([]TopPDV, error) {
	query := r.db.WithContext(ctx).
		Table("recouvrements").
		Joins("JOIN points_de_vente ON points_de_vente.id = recouvrements.point_de_vente_id")
	query = windowed(query, window, "recouvrements.created_at")

	var items []TopPDV
	err := query.
		Select(
			"recouvrements.point_de_vente_id AS pdv_id",
			"points_de_vente.nom AS nom",
			"COUNT(recouvrements.id) AS total_recouvrements",
			"COALESCE(SUM(recouvrements.montant), 0) AS montant_total",
		).
		Group("recouvrements.point_de_vente_id, points_de_vente.nom").
		Order("montant_total DESC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Recent(ctx context.Context, agentID *uuid.UUID, limit int) ([]models.Recouvrement, error) {
	query := r.db.WithContext(ctx).Model(&models.Recouvrement{})
	if agentID != nil {
		query = query.Where("agent_id = ?", *agentID)
	}

	var items []models.Recouvrement
	err := query.
		Preload("PointDeVente").
		Preload("Agent").
		Preload("Lignes").
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CountActivePDV(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PointDeVente{}).
		Where("status = ?", enums.PDVStatusActif).
		Count(&count).Error
	return count, err
}

func (r *repository) CountActiveAgents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_active = ?", enums.UserRoleAgent, true).
		Count(&count).Error
	return count, err
}

func (r *repository) CountPDVForAgent(ctx context.Context, agentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PointDeVente{}).
		Where("agent_id = ?", agentID).
		Count(&count).Error
	return count, err
}
