package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cafcollect/caf-backend/pkg/enums"
)

// User is an account able to sign in: an admin or a field agent.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Nom          string         `gorm:"type:varchar(255);not null" json:"nom"`
	Telephone    string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"telephone"`
	PasswordHash string         `gorm:"type:text;not null" json:"-"`
	Role         enums.UserRole `gorm:"type:varchar(10);not null;index" json:"role"`
	Zone         *string        `gorm:"type:varchar(100)" json:"zone"`
	IsActive     bool           `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"not null" json:"-"`
}

func (User) TableName() string {
	return "users"
}
