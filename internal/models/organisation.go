package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Organisation struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (o *Organisation) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Organisation DTOs
type OrganisationRequest struct {
	Name string `json:"name" validate:"required"`
}
