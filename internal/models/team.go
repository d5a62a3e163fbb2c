package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Team struct {
	ID             uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	OrganisationID uuid.UUID        `json:"organisationId" gorm:"type:uuid;index;not null"`
	Name           string           `json:"name" gorm:"not null"`
	Description    *string          `json:"description"`
	TeamLeadID     *uuid.UUID       `json:"teamLeadId" gorm:"type:uuid"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt   `json:"-" gorm:"index"`
	Memberships    []TeamMembership `json:"memberships,omitempty" gorm:"foreignKey:TeamID"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TeamMembership has no soft delete so a removed member can rejoin without
// tripping the unique index.
type TeamMembership struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TeamID   uuid.UUID `json:"teamId" gorm:"type:uuid;not null;uniqueIndex:idx_team_user"`
	UserID   uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_team_user"`
	JoinedAt time.Time `json:"joinedAt"`

	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID"`
}

func (tm *TeamMembership) BeforeCreate(tx *gorm.DB) error {
	if tm.ID == uuid.Nil {
		tm.ID = uuid.New()
	}
	if tm.JoinedAt.IsZero() {
		tm.JoinedAt = time.Now()
	}
	return nil
}

// Team DTOs
type CreateTeamRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

type AddTeamMemberRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
}

type UpdateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AssignTeamLeadRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
}
