package recouvrements

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
)

// Filters describe the inputs supported by the recouvrement list.
type Filters struct {
	Status    *enums.RecouvrementStatus
	Methode   *enums.MethodePaiement
	Categorie *enums.CategorieProduit
	PDVID     *uuid.UUID
	AgentID   *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Sort      string
	Order     string
}

// View is the recouvrement payload with PDV and agent names inlined.
type View struct {
	ID               uuid.UUID                  `json:"id"`
	Code             string                     `json:"code"`
	PointDeVenteID   uuid.UUID                  `json:"pointDeVenteId"`
	PointDeVenteNom  string                     `json:"pointDeVenteNom"`
	PointDeVenteCode string                     `json:"pointDeVenteCode"`
	AgentID          uuid.UUID                  `json:"agentId"`
	AgentNom         string                     `json:"agentNom"`
	Lignes           []models.LigneRecouvrement `json:"lignes"`
	ArticlesSummary  string                     `json:"articlesSummary"`
	Montant          int64                      `json:"montant"`
	TauxCommission   decimal.Decimal            `json:"tauxCommission"`
	Commission       int64                      `json:"commission"`
	MethodePaiement  enums.MethodePaiement      `json:"methodePaiement"`
	Status           enums.RecouvrementStatus   `json:"status"`
	Reference        *string                    `json:"reference"`
	Notes            *string                    `json:"notes"`
	CreatedAt        time.Time                  `json:"createdAt"`
	ValidatedAt      *time.Time                 `json:"validatedAt"`
}

// NewView flattens a recouvrement row with its preloaded relations.
func NewView(rec models.Recouvrement) View {
	view := View{
		ID:              rec.ID,
		Code:            rec.Code,
		PointDeVenteID:  rec.PointDeVenteID,
		AgentID:         rec.AgentID,
		Lignes:          rec.Lignes,
		ArticlesSummary: rec.ArticlesSummary(),
		Montant:         rec.Montant,
		TauxCommission:  rec.TauxCommission,
		Commission:      rec.Commission,
		MethodePaiement: rec.MethodePaiement,
		Status:          rec.Status,
		Reference:       rec.Reference,
		Notes:           rec.Notes,
		CreatedAt:       rec.CreatedAt,
		ValidatedAt:     rec.ValidatedAt,
	}
	if view.Lignes == nil {
		view.Lignes = []models.LigneRecouvrement{}
	}
	if rec.PointDeVente != nil {
		view.PointDeVenteNom = rec.PointDeVente.Nom
		view.PointDeVenteCode = rec.PointDeVente.Code
	}
	if rec.Agent != nil {
		view.AgentNom = rec.Agent.Nom
	}
	return view
}

// NewViews maps a slice of rows into list payloads.
func NewViews(items []models.Recouvrement) []View {
	out := make([]View, 0, len(items))
	for _, item := range items {
		out = append(out, NewView(item))
	}
	return out
}

// LigneInput is one product line in a collection being recorded.
type LigneInput struct {
	NomProduit   string                 `json:"nomProduit" validate:"required,max=255"`
	Categorie    enums.CategorieProduit `json:"categorie" validate:"required,oneof=BOISSONS ALIMENTATION HABILLEMENT ELECTRONIQUE AUTRE"`
	PrixUnitaire int64                  `json:"prixUnitaire" validate:"required,min=1"`
	Quantite     int64                  `json:"quantite" validate:"required,min=1"`
}

// CreateInput carries the fields accepted when recording a collection.
type CreateInput struct {
	PointDeVenteID  uuid.UUID             `json:"pointDeVenteId" validate:"required"`
	Lignes          []LigneInput          `json:"lignes" validate:"required,min=1,dive"`
	MethodePaiement enums.MethodePaiement `json:"methodePaiement" validate:"required,oneof=MTN_MOMO ORANGE_MONEY ESPECES"`
	Reference       *string               `json:"reference" validate:"omitempty,max=100"`
	Notes           *string               `json:"notes"`
}

// StatusInput carries the one-shot validation decision.
type StatusInput struct {
	Status enums.RecouvrementStatus `json:"status" validate:"required,oneof=VALIDE REJETE"`
}

// Actor identifies the caller for role-scoped operations.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsAgent reports whether the caller holds the agent role.
func (a Actor) IsAgent() bool {
	return a.Role == enums.UserRoleAgent
}
