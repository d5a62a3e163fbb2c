package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KeyResult is a measurable unit under one objective. CurrentValue, Status
// and Score are the snapshot of the latest check-in or direct edit.
//
// AssigneeID is the legacy single-owner column. It is set only when
// AssignmentType is individual, and then equals the one KRAssignee row.
type KeyResult struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	ObjectiveID    uuid.UUID      `json:"objectiveId" gorm:"type:uuid;index;not null"`
	AssigneeID     *uuid.UUID     `json:"assigneeId" gorm:"type:uuid;index"`
	AssignmentType AssignmentType `json:"assignmentType" gorm:"not null;default:'unassigned'"`
	Title          string         `json:"title" gorm:"not null"`
	Description    *string        `json:"description"`
	TargetValue    float64        `json:"targetValue" gorm:"not null"`
	CurrentValue   float64        `json:"currentValue" gorm:"not null;default:0"`
	Unit           string         `json:"unit" gorm:"not null"`
	Score          float64        `json:"score" gorm:"not null;default:0"`
	Status         KRStatus       `json:"status" gorm:"not null;default:'on_track'"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
	Assignees      []KRAssignee   `json:"assignees,omitempty" gorm:"foreignKey:KeyResultID"`
}

func (kr *KeyResult) BeforeCreate(tx *gorm.DB) error {
	if kr.ID == uuid.Nil {
		kr.ID = uuid.New()
	}
	return nil
}

// AssigneeIDs returns the user ids of the loaded junction rows.
func (kr *KeyResult) AssigneeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(kr.Assignees))
	for _, a := range kr.Assignees {
		ids = append(ids, a.UserID)
	}
	return ids
}

// KRAssignee is one (key result, user) junction row. Rows are replaced
// wholesale on every assignment change, so there is no soft delete.
type KRAssignee struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	KeyResultID uuid.UUID `json:"keyResultId" gorm:"type:uuid;not null;uniqueIndex:idx_kr_user"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_kr_user"`
	AssignedAt  time.Time `json:"assignedAt"`
}

func (KRAssignee) TableName() string {
	return "key_result_assignees"
}

func (a *KRAssignee) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now()
	}
	return nil
}

// KeyResult DTOs
type CreateKeyResultRequest struct {
	Title       string     `json:"title" validate:"required"`
	Description *string    `json:"description"`
	TargetValue *float64   `json:"targetValue"`
	Unit        *string    `json:"unit"`
	AssigneeID  *uuid.UUID `json:"assigneeId"`
}

type UpdateKeyResultRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	TargetValue  *float64  `json:"targetValue"`
	Unit         *string   `json:"unit"`
	CurrentValue *float64  `json:"currentValue"`
	Status       *KRStatus `json:"status"`
}

// SetAssignmentRequest selects an assignment mode. UserIDs is used by the
// individual (exactly one) and multi_individual modes.
type SetAssignmentRequest struct {
	Type    AssignmentType `json:"type" validate:"required"`
	UserIDs []uuid.UUID    `json:"userIds"`
}

// AssignRequest is the legacy single-assignee body. A null user unassigns.
type AssignRequest struct {
	UserID *uuid.UUID `json:"userId"`
}
