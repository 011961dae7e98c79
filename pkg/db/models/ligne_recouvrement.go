package models

import (
	"github.com/google/uuid"

	"github.com/cafcollect/caf-backend/pkg/enums"
)

// LigneRecouvrement is a single product line inside a recouvrement.
type LigneRecouvrement struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	RecouvrementID uuid.UUID              `gorm:"type:uuid;not null;index" json:"-"`
	NomProduit     string                 `gorm:"type:varchar(255);not null" json:"nomProduit"`
	Categorie      enums.CategorieProduit `gorm:"type:varchar(15);not null;index" json:"categorie"`
	PrixUnitaire   int64                  `gorm:"not null" json:"prixUnitaire"`
	Quantite       int64                  `gorm:"not null" json:"quantite"`
	SousTotal      int64                  `gorm:"not null" json:"sousTotal"`
}

func (LigneRecouvrement) TableName() string {
	return "lignes_recouvrement"
}
