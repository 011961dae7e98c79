package pdv

import (
	"time"

	"github.com/google/uuid"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
)

// Filters describe the inputs supported by the PDV list.
type Filters struct {
	Status  *enums.PDVStatus
	AgentID *uuid.UUID
	Commune string
	Search  string
}

// View is the PDV payload with the agent name inlined.
type View struct {
	ID                    uuid.UUID       `json:"id"`
	Code                  string          `json:"code"`
	Nom                   string          `json:"nom"`
	Adresse               *string         `json:"adresse"`
	Ville                 string          `json:"ville"`
	Commune               string          `json:"commune"`
	ProprietaireNom       string          `json:"proprietaireNom"`
	ProprietaireTelephone *string         `json:"proprietaireTelephone"`
	Status                enums.PDVStatus `json:"status"`
	AgentID               uuid.UUID       `json:"agentId"`
	AgentNom              string          `json:"agentNom"`
	CreatedAt             time.Time       `json:"createdAt"`
}

// NewView flattens a PDV row and its preloaded agent.
func NewView(pdv models.PointDeVente) View {
	view := View{
		ID:                    pdv.ID,
		Code:                  pdv.Code,
		Nom:                   pdv.Nom,
		Adresse:               pdv.Adresse,
		Ville:                 pdv.Ville,
		Commune:               pdv.Commune,
		ProprietaireNom:       pdv.ProprietaireNom,
		ProprietaireTelephone: pdv.ProprietaireTelephone,
		Status:                pdv.Status,
		AgentID:               pdv.AgentID,
		CreatedAt:             pdv.CreatedAt,
	}
	if pdv.Agent != nil {
		view.AgentNom = pdv.Agent.Nom
	}
	return view
}

// NewViews maps a slice of rows into list payloads.
func NewViews(items []models.PointDeVente) []View {
	out := make([]View, 0, len(items))
	for _, item := range items {
		out = append(out, NewView(item))
	}
	return out
}

// CreateInput carries the fields accepted when creating a PDV.
type CreateInput struct {
	Nom                   string           `json:"nom" validate:"required,max=255"`
	Adresse               *string          `json:"adresse"`
	Ville                 *string          `json:"ville" validate:"omitempty,max=100"`
	Commune               string           `json:"commune" validate:"required,max=100"`
	ProprietaireNom       string           `json:"proprietaireNom" validate:"required,max=255"`
	ProprietaireTelephone *string          `json:"proprietaireTelephone" validate:"omitempty,cifphone"`
	Status                *enums.PDVStatus `json:"status" validate:"omitempty,oneof=ACTIF INACTIF EN_ATTENTE"`
	AgentID               *uuid.UUID       `json:"agentId"`
}

// UpdateInput carries the partial-update fields; nil means untouched.
type UpdateInput struct {
	Nom                   *string          `json:"nom" validate:"omitempty,max=255"`
	Adresse               *string          `json:"adresse"`
	Ville                 *string          `json:"ville" validate:"omitempty,max=100"`
	Commune               *string          `json:"commune" validate:"omitempty,max=100"`
	ProprietaireNom       *string          `json:"proprietaireNom" validate:"omitempty,max=255"`
	ProprietaireTelephone *string          `json:"proprietaireTelephone" validate:"omitempty,cifphone"`
	Status                *enums.PDVStatus `json:"status" validate:"omitempty,oneof=ACTIF INACTIF EN_ATTENTE"`
	AgentID               *uuid.UUID       `json:"agentId"`
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
