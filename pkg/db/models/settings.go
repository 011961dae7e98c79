package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is the global configuration singleton; always row id = 1.
type Settings struct {
	ID             int64           `gorm:"primaryKey" json:"-"`
	TauxCommission decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"tauxCommission"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updatedAt"`
}

func (Settings) TableName() string {
	return "settings"
}

// SettingsID is the fixed primary key of the singleton row.
const SettingsID int64 = 1
