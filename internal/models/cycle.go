package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cycle is an OKR period (usually a quarter). At most one cycle per
// organisation is active.
type Cycle struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OrganisationID uuid.UUID      `json:"organisationId" gorm:"type:uuid;index;not null"`
	Name           string         `json:"name" gorm:"not null"`
	StartDate      time.Time      `json:"startDate" gorm:"not null"`
	EndDate        time.Time      `json:"endDate" gorm:"not null"`
	IsActive       bool           `json:"isActive" gorm:"default:false"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

func (c *Cycle) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Cycle DTOs
type CreateCycleRequest struct {
	Name      string    `json:"name" validate:"required"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
}

type UpdateCycleRequest struct {
	Name      *string    `json:"name"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

type CarryForwardRequest struct {
	ToCycleID uuid.UUID `json:"toCycleId" validate:"required"`
}
