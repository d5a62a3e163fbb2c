package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckIn is an append-only progress event against a key result.
type CheckIn struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	KeyResultID uuid.UUID `json:"keyResultId" gorm:"type:uuid;index;not null"`
	AuthorID    uuid.UUID `json:"authorId" gorm:"type:uuid;index;not null"`
	Value       float64   `json:"value" gorm:"not null"`
	Status      KRStatus  `json:"status" gorm:"not null"`
	Comment     *string   `json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`

	Author *Profile `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (ci *CheckIn) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}

// CheckIn DTOs
type CreateCheckInRequest struct {
	Value   float64  `json:"value"`
	Status  KRStatus `json:"status" validate:"required"`
	Comment *string  `json:"comment"`
}
