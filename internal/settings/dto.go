package settings

import "github.com/shopspring/decimal"

// CommissionInput carries the new global commission rate in percent.
type CommissionInput struct {
	TauxCommission decimal.Decimal `json:"tauxCommission" validate:"required"`
}

// ProfileInput carries the partial self-profile update; nil means untouched.
type ProfileInput struct {
	Nom        *string `json:"nom" validate:"omitempty,max=255"`
	Telephone  *string `json:"telephone" validate:"omitempty,cifphone"`
	MotDePasse *string `json:"motDePasse" validate:"omitempty,max=255"`
}
