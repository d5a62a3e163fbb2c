package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the application-side record of a user. Identities are issued
// by the external auth provider; the profile id is the token subject.
type Profile struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	OrganisationID *uuid.UUID     `json:"organisationId" gorm:"type:uuid;index"`
	FullName       string         `json:"fullName"`
	Email          string         `json:"email" gorm:"uniqueIndex;not null"`
	AvatarURL      *string        `json:"avatarUrl"`
	Role           UserRole       `json:"role" gorm:"not null;default:'member'"`
	FCMToken       string         `json:"-" gorm:"column:fcm_token"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Profile DTOs
type UpdateProfileRequest struct {
	FullName string `json:"fullName" validate:"required"`
}

type UpdateRoleRequest struct {
	Role UserRole `json:"role" validate:"required"`
}
