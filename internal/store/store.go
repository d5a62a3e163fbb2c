// Package store is the data access used by the services. The interfaces
// keep the services independent of gorm; Gorm is the one implementation.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/arnold/okrs-api/internal/models"
)

var ErrNotFound = errors.New("not found")

// OKRStore covers objectives, key results, their assignees and check-ins.
type OKRStore interface {
	// Transaction runs fn against a store bound to a single transaction.
	Transaction(ctx context.Context, fn func(OKRStore) error) error

	GetObjective(ctx context.Context, id uuid.UUID) (*models.Objective, error)
	ListObjectives(ctx context.Context, organisationID uuid.UUID, filters models.ObjectiveFilters) ([]models.Objective, error)
	CreateObjective(ctx context.Context, objective *models.Objective) error
	UpdateObjective(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Objective, error)
	UpdateObjectiveScore(ctx context.Context, id uuid.UUID, score float64) error
	DeleteObjective(ctx context.Context, id uuid.UUID) error

	GetKeyResult(ctx context.Context, id uuid.UUID) (*models.KeyResult, error)
	ListKeyResults(ctx context.Context, objectiveID uuid.UUID) ([]models.KeyResult, error)
	ListKeyResultScores(ctx context.Context, objectiveID uuid.UUID) ([]float64, error)
	CreateKeyResult(ctx context.Context, kr *models.KeyResult) error
	UpdateKeyResult(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.KeyResult, error)
	DeleteKeyResult(ctx context.Context, id uuid.UUID) error

	ListAssignees(ctx context.Context, keyResultID uuid.UUID) ([]uuid.UUID, error)
	DeleteAssignees(ctx context.Context, keyResultID uuid.UUID) error
	InsertAssignees(ctx context.Context, keyResultID uuid.UUID, userIDs []uuid.UUID) error

	InsertCheckIn(ctx context.Context, checkIn *models.CheckIn) error
	ListCheckIns(ctx context.Context, keyResultID uuid.UUID) ([]models.CheckIn, error)
}

type CycleStore interface {
	ListCycles(ctx context.Context, organisationID uuid.UUID) ([]models.Cycle, error)
	GetCycle(ctx context.Context, id uuid.UUID) (*models.Cycle, error)
	// GetActiveCycle returns nil, nil when the organisation has no active cycle.
	GetActiveCycle(ctx context.Context, organisationID uuid.UUID) (*models.Cycle, error)
	CreateCycle(ctx context.Context, cycle *models.Cycle) error
	UpdateCycle(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Cycle, error)
	SetActiveCycle(ctx context.Context, organisationID, cycleID uuid.UUID) (*models.Cycle, error)
	// ListCarryableObjectives returns draft and active objectives of a cycle
	// with their key results and assignees loaded.
	ListCarryableObjectives(ctx context.Context, cycleID uuid.UUID) ([]models.Objective, error)
}

type TeamStore interface {
	ListTeams(ctx context.Context, organisationID uuid.UUID) ([]models.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	CreateTeam(ctx context.Context, team *models.Team) error
	AddTeamMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMembership, error)
	RemoveTeamMember(ctx context.Context, teamID, userID uuid.UUID) error
	ListTeamIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	UpdateTeam(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Team, error)
	// DeleteTeam removes the team and its memberships.
	DeleteTeam(ctx context.Context, id uuid.UUID) error
	ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMembership, error)
}

type DeviceTokenStore interface {
	GetFCMToken(ctx context.Context, userID uuid.UUID) (string, error)
	SetFCMToken(ctx context.Context, userID uuid.UUID, token string) error
}

type ProfileStore interface {
	DeviceTokenStore
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	ListProfiles(ctx context.Context, organisationID uuid.UUID) ([]models.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Profile, error)
}

type OrganisationStore interface {
	GetOrganisation(ctx context.Context, id uuid.UUID) (*models.Organisation, error)
	// CreateOrganisation also makes ownerID an admin of the new organisation.
	CreateOrganisation(ctx context.Context, org *models.Organisation, ownerID uuid.UUID) error
	UpdateOrganisation(ctx context.Context, id uuid.UUID, name string) (*models.Organisation, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	// ListNotifications returns a page of the user's inbox, newest first,
	// with the total and unread counts.
	ListNotifications(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Notification, int64, int64, error)
	MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) error
}
