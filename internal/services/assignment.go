package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/assignment"
	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/store"
)

// SetAssignmentTeam hands the key result to its objective's team. Only key
// results under a team objective can be team assigned.
func (s *OKRService) SetAssignmentTeam(ctx context.Context, keyResultID uuid.UUID) (*models.KeyResult, error) {
	kr, err := s.store.GetKeyResult(ctx, keyResultID)
	if err != nil {
		return nil, err
	}
	objective, err := s.store.GetObjective(ctx, kr.ObjectiveID)
	if err != nil {
		return nil, fmt.Errorf("load objective: %w", err)
	}
	if objective.Type != models.ObjectiveTypeTeam || objective.TeamID == nil {
		return nil, ErrTeamAssignmentNotAllowed
	}
	return s.applyAssignment(ctx, kr, assignment.Team())
}

func (s *OKRService) SetAssignmentIndividual(ctx context.Context, keyResultID, userID uuid.UUID) (*models.KeyResult, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidAssignee
	}
	kr, err := s.store.GetKeyResult(ctx, keyResultID)
	if err != nil {
		return nil, err
	}
	return s.applyAssignment(ctx, kr, assignment.Individual(userID))
}

// SetAssignmentMulti assigns a set of users with shared progress. An empty
// set unassigns.
func (s *OKRService) SetAssignmentMulti(ctx context.Context, keyResultID uuid.UUID, userIDs []uuid.UUID) (*models.KeyResult, error) {
	kr, err := s.store.GetKeyResult(ctx, keyResultID)
	if err != nil {
		return nil, err
	}
	return s.applyAssignment(ctx, kr, assignment.Multi(userIDs...))
}

func (s *OKRService) UnassignKeyResult(ctx context.Context, keyResultID uuid.UUID) (*models.KeyResult, error) {
	kr, err := s.store.GetKeyResult(ctx, keyResultID)
	if err != nil {
		return nil, err
	}
	return s.applyAssignment(ctx, kr, assignment.Unassigned())
}

// AssignKeyResult is the legacy single-assignee entry point: a user means
// individual mode, nil means unassigned.
func (s *OKRService) AssignKeyResult(ctx context.Context, keyResultID uuid.UUID, userID *uuid.UUID) (*models.KeyResult, error) {
	if userID != nil && *userID != uuid.Nil {
		return s.SetAssignmentIndividual(ctx, keyResultID, *userID)
	}
	return s.UnassignKeyResult(ctx, keyResultID)
}

// SetAssignment dispatches on the requested mode.
func (s *OKRService) SetAssignment(ctx context.Context, keyResultID uuid.UUID, req models.SetAssignmentRequest) (*models.KeyResult, error) {
	switch req.Type {
	case models.AssignmentUnassigned:
		return s.UnassignKeyResult(ctx, keyResultID)
	case models.AssignmentTeam:
		return s.SetAssignmentTeam(ctx, keyResultID)
	case models.AssignmentIndividual:
		if len(req.UserIDs) != 1 {
			return nil, fmt.Errorf("%w: individual assignment takes exactly one user", ErrInvalidAssignee)
		}
		return s.SetAssignmentIndividual(ctx, keyResultID, req.UserIDs[0])
	case models.AssignmentMultiIndividual:
		return s.SetAssignmentMulti(ctx, keyResultID, req.UserIDs)
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidAssignmentType, req.Type)
}

// IsAssigned reports whether the user is assigned to the key result. The
// junction rows decide when present; otherwise the legacy column does.
func (s *OKRService) IsAssigned(ctx context.Context, keyResultID, userID uuid.UUID) (bool, error) {
	kr, err := s.store.GetKeyResult(ctx, keyResultID)
	if err != nil {
		return false, err
	}
	return assignment.Includes(kr.AssigneeIDs(), kr.AssigneeID, userID), nil
}

// applyAssignment replaces all junction rows and then writes the mode and
// the derived legacy column.
func (s *OKRService) applyAssignment(ctx context.Context, kr *models.KeyResult, a assignment.Assignment) (*models.KeyResult, error) {
	var updated *models.KeyResult
	apply := func(st store.OKRStore) error {
		if err := st.DeleteAssignees(ctx, kr.ID); err != nil {
			return fmt.Errorf("clear assignees: %w", err)
		}
		if err := st.InsertAssignees(ctx, kr.ID, a.Users()); err != nil {
			return fmt.Errorf("insert assignees: %w", err)
		}
		updates := map[string]interface{}{
			"assignment_type": a.Type(),
			"assignee_id":     nil,
		}
		if id := a.LegacyAssigneeID(); id != nil {
			updates["assignee_id"] = *id
		}
		var err error
		updated, err = st.UpdateKeyResult(ctx, kr.ID, updates)
		return err
	}

	var err error
	if s.atomic {
		err = s.store.Transaction(ctx, apply)
	} else {
		err = apply(s.store)
	}
	if err != nil {
		s.logger.Error("Failed to set key result assignment",
			zap.String("key_result_id", kr.ID.String()),
			zap.String("assignment_type", string(a.Type())),
			zap.Error(err))
		return nil, err
	}

	if added := newlyAssigned(kr.AssigneeIDs(), a.Users()); len(added) > 0 {
		s.notifier.NotifyAssigned(ctx, added, updated)
	}
	return updated, nil
}

func newlyAssigned(before, after []uuid.UUID) []uuid.UUID {
	had := make(map[uuid.UUID]bool, len(before))
	for _, id := range before {
		had[id] = true
	}
	var added []uuid.UUID
	for _, id := range after {
		if !had[id] {
			added = append(added, id)
		}
	}
	return added
}
