package users

import (
	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
)

// Filters describe the inputs supported by the user list.
type Filters struct {
	Role     *enums.UserRole
	IsActive *bool
	Search   string
}

// Stats aggregates the activity of an agent for the detail view.
type Stats struct {
	TotalRecouvrements int64 `json:"totalRecouvrements"`
	MontantTotal       int64 `json:"montantTotal"`
	CommissionTotale   int64 `json:"commissionTotale"`
	TotalPDV           int64 `json:"totalPDV"`
}

// Detail is the user payload with embedded activity stats.
type Detail struct {
	models.User
	Stats Stats `json:"stats"`
}

// CreateInput carries the fields accepted when creating a user.
type CreateInput struct {
	Nom        string         `json:"nom" validate:"required,max=255"`
	Telephone  string         `json:"telephone" validate:"required,cifphone"`
	MotDePasse string         `json:"motDePasse" validate:"required,min=4"`
	Role       enums.UserRole `json:"role" validate:"required,oneof=admin agent"`
	Zone       *string        `json:"zone" validate:"omitempty,max=100"`
	IsActive   *bool          `json:"isActive"`
}

// UpdateInput carries the partial-update fields; nil means untouched.
type UpdateInput struct {
	Nom        *string         `json:"nom" validate:"omitempty,max=255"`
	Telephone  *string         `json:"telephone" validate:"omitempty,cifphone"`
	MotDePasse *string         `json:"motDePasse" validate:"omitempty,min=4"`
	Role       *enums.UserRole `json:"role" validate:"omitempty,oneof=admin agent"`
	Zone       *string         `json:"zone" validate:"omitempty,max=100"`
	IsActive   *bool           `json:"isActive"`
}
