package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cafcollect/caf-backend/pkg/enums"
)

// Recouvrement is one collection recorded by an agent at a point of sale.
// montant/commission are integer FCFA amounts; taux_commission is the
// rate snapshot taken at creation time (e.g. 0.0200 for 2%).
type Recouvrement struct {
	ID              uuid.UUID                `gorm:"type:uuid;primaryKey" json:"id"`
	Code            string                   `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	PointDeVenteID  uuid.UUID                `gorm:"type:uuid;not null;index" json:"pointDeVenteId"`
	PointDeVente    *PointDeVente            `gorm:"foreignKey:PointDeVenteID" json:"-"`
	AgentID         uuid.UUID                `gorm:"type:uuid;not null;index" json:"agentId"`
	Agent           *User                    `gorm:"foreignKey:AgentID" json:"-"`
	Montant         int64                    `gorm:"not null" json:"montant"`
	TauxCommission  decimal.Decimal          `gorm:"type:numeric(5,4);not null" json:"tauxCommission"`
	Commission      int64                    `gorm:"not null" json:"commission"`
	MethodePaiement enums.MethodePaiement    `gorm:"type:varchar(15);not null;index" json:"methodePaiement"`
	Status          enums.RecouvrementStatus `gorm:"type:varchar(15);not null;index" json:"status"`
	Reference       *string                  `gorm:"type:varchar(100)" json:"reference"`
	Notes           *string                  `gorm:"type:text" json:"notes"`
	Lignes          []LigneRecouvrement      `gorm:"foreignKey:RecouvrementID;constraint:OnDelete:CASCADE" json:"lignes"`
	CreatedAt       time.Time                `gorm:"not null;index" json:"createdAt"`
	ValidatedAt     *time.Time               `json:"validatedAt"`
	UpdatedAt       time.Time                `gorm:"not null" json:"-"`
}

func (Recouvrement) TableName() string {
	return "recouvrements"
}

// ArticlesSummary renders a short product preview for list views,
// e.g. "3 articles - Coca 33cl, Fanta 1L, ...".
func (r Recouvrement) ArticlesSummary() string {
	noms := make([]string, 0, len(r.Lignes))
	for _, l := range r.Lignes {
		noms = append(noms, l.NomProduit)
	}
	count := len(noms)
	if count > 2 {
		return fmt.Sprintf("%d articles - %s, ...", count, strings.Join(noms[:2], ", "))
	}
	suffix := ""
	if count > 1 {
		suffix = "s"
	}
	return fmt.Sprintf("%d article%s - %s", count, suffix, strings.Join(noms, ", "))
}
