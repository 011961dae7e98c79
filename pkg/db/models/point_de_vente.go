package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cafcollect/caf-backend/pkg/enums"
)

// PointDeVente is a shop or stall a field agent collects from.
type PointDeVente struct {
	ID                    uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Code                  string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Nom                   string          `gorm:"type:varchar(255);not null" json:"nom"`
	Adresse               *string         `gorm:"type:text" json:"adresse"`
	Ville                 string          `gorm:"type:varchar(100);not null;default:Abidjan" json:"ville"`
	Commune               string          `gorm:"type:varchar(100);not null" json:"commune"`
	ProprietaireNom       string          `gorm:"type:varchar(255);not null" json:"proprietaireNom"`
	ProprietaireTelephone *string         `gorm:"type:varchar(20)" json:"proprietaireTelephone"`
	Status                enums.PDVStatus `gorm:"type:varchar(15);not null;index" json:"status"`
	AgentID               uuid.UUID       `gorm:"type:uuid;not null;index" json:"agentId"`
	Agent                 *User           `gorm:"foreignKey:AgentID" json:"-"`
	CreatedAt             time.Time       `gorm:"not null;index" json:"createdAt"`
	UpdatedAt             time.Time       `gorm:"not null" json:"-"`
}

func (PointDeVente) TableName() string {
	return "points_de_vente"
}
