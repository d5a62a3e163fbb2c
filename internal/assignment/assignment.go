// Package assignment models who owns a key result. An Assignment is one of
// Unassigned, Team, Individual(user) or Multi(users); the legacy assignee_id
// column and the junction rows are both derived from it.
package assignment

import (
	"github.com/google/uuid"

	"github.com/arnold/okrs-api/internal/models"
)

type Assignment struct {
	kind  models.AssignmentType
	users []uuid.UUID
}

func Unassigned() Assignment {
	return Assignment{kind: models.AssignmentUnassigned}
}

func Team() Assignment {
	return Assignment{kind: models.AssignmentTeam}
}

func Individual(userID uuid.UUID) Assignment {
	return Assignment{kind: models.AssignmentIndividual, users: []uuid.UUID{userID}}
}

// Multi assigns a set of users. Duplicates and nil ids are dropped; an empty
// set is the same as Unassigned.
func Multi(userIDs ...uuid.UUID) Assignment {
	users := dedupe(userIDs)
	if len(users) == 0 {
		return Unassigned()
	}
	return Assignment{kind: models.AssignmentMultiIndividual, users: users}
}

// FromLegacy maps the single-assignee entry point: a user means Individual,
// nil means Unassigned.
func FromLegacy(userID *uuid.UUID) Assignment {
	if userID == nil || *userID == uuid.Nil {
		return Unassigned()
	}
	return Individual(*userID)
}

func (a Assignment) Type() models.AssignmentType {
	if a.kind == "" {
		return models.AssignmentUnassigned
	}
	return a.kind
}

// Users returns the junction rows this assignment materializes to.
func (a Assignment) Users() []uuid.UUID {
	out := make([]uuid.UUID, len(a.users))
	copy(out, a.users)
	return out
}

// LegacyAssigneeID is the value of the assignee_id column: the user for
// Individual, nil otherwise.
func (a Assignment) LegacyAssigneeID() *uuid.UUID {
	if a.kind != models.AssignmentIndividual {
		return nil
	}
	id := a.users[0]
	return &id
}

// Includes reports whether the user is assigned. A non-empty junction set is
// authoritative; the legacy column is consulted only when it is empty, which
// covers rows written before the junction table existed.
func Includes(junction []uuid.UUID, legacy *uuid.UUID, userID uuid.UUID) bool {
	if len(junction) > 0 {
		for _, id := range junction {
			if id == userID {
				return true
			}
		}
		return false
	}
	return legacy != nil && *legacy == userID
}

// Of reconstructs the assignment stored on a key result. Assignees must be
// loaded for the multi and individual modes to round-trip.
func Of(kr *models.KeyResult) Assignment {
	users := kr.AssigneeIDs()
	switch kr.AssignmentType {
	case models.AssignmentTeam:
		return Team()
	case models.AssignmentIndividual:
		if len(users) > 0 {
			return Individual(users[0])
		}
		return FromLegacy(kr.AssigneeID)
	case models.AssignmentMultiIndividual:
		return Multi(users...)
	}
	if len(users) == 0 && kr.AssigneeID != nil {
		// written before assignment_type existed
		return FromLegacy(kr.AssigneeID)
	}
	return Unassigned()
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
