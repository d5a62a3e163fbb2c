package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Objective is a goal owned by a team, a cross-cutting initiative or an
// individual. Score is always derived from the key results and is never
// written from user input.
type Objective struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrganisationID uuid.UUID       `json:"organisationId" gorm:"type:uuid;index;not null"`
	CycleID        uuid.UUID       `json:"cycleId" gorm:"type:uuid;index;not null"`
	TeamID         *uuid.UUID      `json:"teamId" gorm:"type:uuid;index"`
	OwnerID        *uuid.UUID      `json:"ownerId" gorm:"type:uuid;index"`
	Type           ObjectiveType   `json:"type" gorm:"not null"`
	Title          string          `json:"title" gorm:"not null"`
	Description    *string         `json:"description"`
	Status         ObjectiveStatus `json:"status" gorm:"not null;default:'draft'"`
	Score          float64         `json:"score" gorm:"not null;default:0"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
	KeyResults     []KeyResult     `json:"keyResults,omitempty" gorm:"foreignKey:ObjectiveID"`
}

func (o *Objective) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// ObjectiveFilters narrows an objective listing. Zero values are ignored.
type ObjectiveFilters struct {
	CycleID *uuid.UUID
	Type    ObjectiveType
	TeamID  *uuid.UUID
	OwnerID *uuid.UUID
	Status  ObjectiveStatus
}

// Objective DTOs
type CreateObjectiveRequest struct {
	CycleID     uuid.UUID     `json:"cycleId" validate:"required"`
	Type        ObjectiveType `json:"type" validate:"required"`
	Title       string        `json:"title" validate:"required"`
	Description *string       `json:"description"`
	TeamID      *uuid.UUID    `json:"teamId"`
	OwnerID     *uuid.UUID    `json:"ownerId"`
}

type UpdateObjectiveRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Status      *ObjectiveStatus `json:"status"`
}
