package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/assignment"
	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/scoring"
	"github.com/arnold/okrs-api/internal/store"
)

const (
	defaultTargetValue = 100
	defaultUnit        = "%"
)

// OKRService owns objectives, key results, check-ins and key-result
// assignment. Every key-result mutation is followed by a recompute of the
// parent objective's score before the call returns.
type OKRService struct {
	store      store.OKRStore
	teams      store.TeamStore
	propagator *ScorePropagator
	notifier   Notifier
	atomic     bool
	logger     *zap.Logger
}

type Option func(*OKRService)

// WithAtomicPropagation runs each mutation and its score recompute in one
// transaction; a failed recompute then fails the whole call.
func WithAtomicPropagation(enabled bool) Option {
	return func(s *OKRService) {
		s.atomic = enabled
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *OKRService) {
		if n != nil {
			s.notifier = n
		}
	}
}

func NewOKRService(okrs store.OKRStore, teams store.TeamStore, logger *zap.Logger, opts ...Option) *OKRService {
	s := &OKRService{
		store:      okrs,
		teams:      teams,
		propagator: NewScorePropagator(logger),
		notifier:   nopNotifier{},
		logger:     logger.Named("okr-service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// mutate applies a key-result change and then propagates the score of the
// objective it returns. Outside atomic mode a propagation failure is logged
// and the committed change is kept.
func (s *OKRService) mutate(ctx context.Context, fn func(st store.OKRStore) (uuid.UUID, error)) error {
	if s.atomic {
		return s.store.Transaction(ctx, func(tx store.OKRStore) error {
			objectiveID, err := fn(tx)
			if err != nil {
				return err
			}
			if _, err := s.propagator.Recalculate(ctx, tx, objectiveID); err != nil {
				return fmt.Errorf("recalculate objective score: %w", err)
			}
			return nil
		})
	}

	objectiveID, err := fn(s.store)
	if err != nil {
		return err
	}
	if _, err := s.propagator.Recalculate(ctx, s.store, objectiveID); err != nil {
		s.logger.Warn("Objective score propagation failed, key result change kept",
			zap.String("objective_id", objectiveID.String()),
			zap.Error(err))
	}
	return nil
}

// Objectives

func (s *OKRService) GetObjective(ctx context.Context, id uuid.UUID) (*models.Objective, error) {
	return s.store.GetObjective(ctx, id)
}

func (s *OKRService) ListObjectives(ctx context.Context, organisationID uuid.UUID, filters models.ObjectiveFilters) ([]models.Objective, error) {
	objectives, err := s.store.ListObjectives(ctx, organisationID, filters)
	if err != nil {
		s.logger.Error("Failed to list objectives",
			zap.String("organisation_id", organisationID.String()),
			zap.Error(err))
		return nil, err
	}
	return objectives, nil
}

func (s *OKRService) CreateObjective(ctx context.Context, organisationID uuid.UUID, req models.CreateObjectiveRequest) (*models.Objective, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidObjective, req.Type)
	}
	if req.Type == models.ObjectiveTypeTeam && req.TeamID == nil {
		return nil, fmt.Errorf("%w: team objectives need a team", ErrInvalidObjective)
	}

	objective := &models.Objective{
		OrganisationID: organisationID,
		CycleID:        req.CycleID,
		Type:           req.Type,
		Title:          req.Title,
		Description:    req.Description,
		TeamID:         req.TeamID,
		OwnerID:        req.OwnerID,
		Status:         models.ObjectiveStatusDraft,
		Score:          0,
	}
	if err := s.store.CreateObjective(ctx, objective); err != nil {
		s.logger.Error("Failed to create objective", zap.Error(err))
		return nil, err
	}
	return objective, nil
}

// UpdateObjective edits title, description and status. The score is not
// user editable.
func (s *OKRService) UpdateObjective(ctx context.Context, id uuid.UUID, req models.UpdateObjectiveRequest) (*models.Objective, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
		updates["status"] = *req.Status
	}

	objective, err := s.store.UpdateObjective(ctx, id, updates)
	if err != nil {
		s.logger.Error("Failed to update objective",
			zap.String("objective_id", id.String()),
			zap.Error(err))
		return nil, err
	}
	return objective, nil
}

func (s *OKRService) DeleteObjective(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteObjective(ctx, id); err != nil {
		s.logger.Error("Failed to delete objective",
			zap.String("objective_id", id.String()),
			zap.Error(err))
		return err
	}
	return nil
}

// ObjectivesForUser returns the cycle's objectives that belong to one of the
// user's teams, are owned by the user, or hold a key result assigned to the
// user. Ordered by type, newest first within a type.
func (s *OKRService) ObjectivesForUser(ctx context.Context, organisationID, userID, cycleID uuid.UUID) ([]models.Objective, error) {
	teamIDs, err := s.teams.ListTeamIDsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams for user: %w", err)
	}
	inTeam := make(map[uuid.UUID]bool, len(teamIDs))
	for _, id := range teamIDs {
		inTeam[id] = true
	}

	objectives, err := s.store.ListObjectives(ctx, organisationID, models.ObjectiveFilters{CycleID: &cycleID})
	if err != nil {
		return nil, err
	}

	mine := make([]models.Objective, 0, len(objectives))
	for _, o := range objectives {
		if (o.TeamID != nil && inTeam[*o.TeamID]) || (o.OwnerID != nil && *o.OwnerID == userID) || hasAssignedKeyResult(o.KeyResults, userID) {
			mine = append(mine, o)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].Type < mine[j].Type
	})
	return mine, nil
}

func hasAssignedKeyResult(krs []models.KeyResult, userID uuid.UUID) bool {
	for i := range krs {
		if assignment.Includes(krs[i].AssigneeIDs(), krs[i].AssigneeID, userID) {
			return true
		}
	}
	return false
}

// Key results

func (s *OKRService) GetKeyResult(ctx context.Context, id uuid.UUID) (*models.KeyResult, error) {
	return s.store.GetKeyResult(ctx, id)
}

func (s *OKRService) ListKeyResults(ctx context.Context, objectiveID uuid.UUID) ([]models.KeyResult, error) {
	return s.store.ListKeyResults(ctx, objectiveID)
}

// CreateKeyResult adds a key result with zero progress. A given assignee
// puts it in individual mode.
func (s *OKRService) CreateKeyResult(ctx context.Context, objectiveID uuid.UUID, req models.CreateKeyResultRequest) (*models.KeyResult, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if _, err := s.store.GetObjective(ctx, objectiveID); err != nil {
		return nil, err
	}

	a := assignment.FromLegacy(req.AssigneeID)
	kr := &models.KeyResult{
		ObjectiveID:    objectiveID,
		Title:          req.Title,
		Description:    req.Description,
		TargetValue:    defaultTargetValue,
		CurrentValue:   0,
		Unit:           defaultUnit,
		Score:          0,
		Status:         models.StatusOnTrack,
		AssignmentType: a.Type(),
		AssigneeID:     a.LegacyAssigneeID(),
	}
	if req.TargetValue != nil {
		kr.TargetValue = *req.TargetValue
	}
	if req.Unit != nil {
		kr.Unit = *req.Unit
	}

	err := s.mutate(ctx, func(st store.OKRStore) (uuid.UUID, error) {
		if err := st.CreateKeyResult(ctx, kr); err != nil {
			return uuid.Nil, err
		}
		if err := st.InsertAssignees(ctx, kr.ID, a.Users()); err != nil {
			return uuid.Nil, fmt.Errorf("insert assignees: %w", err)
		}
		return objectiveID, nil
	})
	if err != nil {
		s.logger.Error("Failed to create key result",
			zap.String("objective_id", objectiveID.String()),
			zap.Error(err))
		return nil, err
	}

	if users := a.Users(); len(users) > 0 {
		s.notifier.NotifyAssigned(ctx, users, kr)
	}
	return s.store.GetKeyResult(ctx, kr.ID)
}

// UpdateKeyResult applies a partial edit. The score is recomputed when the
// current or target value changes.
func (s *OKRService) UpdateKeyResult(ctx context.Context, id uuid.UUID, req models.UpdateKeyResultRequest) (*models.KeyResult, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.TargetValue != nil {
		updates["target_value"] = *req.TargetValue
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.CurrentValue != nil {
		updates["current_value"] = *req.CurrentValue
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
		updates["status"] = *req.Status
	}

	var updated *models.KeyResult
	err := s.mutate(ctx, func(st store.OKRStore) (uuid.UUID, error) {
		current, err := st.GetKeyResult(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		if req.CurrentValue != nil || req.TargetValue != nil {
			cv, tv := current.CurrentValue, current.TargetValue
			if req.CurrentValue != nil {
				cv = *req.CurrentValue
			}
			if req.TargetValue != nil {
				tv = *req.TargetValue
			}
			updates["score"] = scoring.CalculateKRScore(cv, tv)
		}
		updated, err = st.UpdateKeyResult(ctx, id, updates)
		if err != nil {
			return uuid.Nil, err
		}
		return updated.ObjectiveID, nil
	})
	if err != nil {
		s.logger.Error("Failed to update key result",
			zap.String("key_result_id", id.String()),
			zap.Error(err))
		return nil, err
	}
	return updated, nil
}

// DeleteKeyResult removes a key result and recomputes its objective. The
// last key result going away leaves the objective at 0.
func (s *OKRService) DeleteKeyResult(ctx context.Context, id uuid.UUID) (*models.KeyResult, error) {
	var deleted *models.KeyResult
	err := s.mutate(ctx, func(st store.OKRStore) (uuid.UUID, error) {
		kr, err := st.GetKeyResult(ctx, id)
		if err != nil {
			return uuid.Nil, err
		}
		if err := st.DeleteKeyResult(ctx, id); err != nil {
			return uuid.Nil, err
		}
		deleted = kr
		return kr.ObjectiveID, nil
	})
	if err != nil {
		s.logger.Error("Failed to delete key result",
			zap.String("key_result_id", id.String()),
			zap.Error(err))
		return nil, err
	}
	return deleted, nil
}

// RecalculateObjectiveScore runs the propagator on its own, for repairing
// objectives left stale by a failed best-effort propagation.
func (s *OKRService) RecalculateObjectiveScore(ctx context.Context, objectiveID uuid.UUID) (float64, error) {
	return s.propagator.Recalculate(ctx, s.store, objectiveID)
}

type ScoreRepair struct {
	ObjectiveID uuid.UUID `json:"objectiveId"`
	Title       string    `json:"title"`
	Before      float64   `json:"before"`
	After       float64   `json:"after"`
}

// RecalculateCycle recomputes every objective score in a cycle and reports
// the ones that changed.
func (s *OKRService) RecalculateCycle(ctx context.Context, organisationID, cycleID uuid.UUID) ([]ScoreRepair, error) {
	objectives, err := s.store.ListObjectives(ctx, organisationID, models.ObjectiveFilters{CycleID: &cycleID})
	if err != nil {
		return nil, err
	}

	var repairs []ScoreRepair
	for _, o := range objectives {
		score, err := s.propagator.Recalculate(ctx, s.store, o.ID)
		if err != nil {
			return repairs, fmt.Errorf("objective %s: %w", o.ID, err)
		}
		if score != o.Score {
			repairs = append(repairs, ScoreRepair{ObjectiveID: o.ID, Title: o.Title, Before: o.Score, After: score})
		}
	}
	s.logger.Info("Recalculated cycle scores",
		zap.String("cycle_id", cycleID.String()),
		zap.Int("objectives", len(objectives)),
		zap.Int("repaired", len(repairs)))
	return repairs, nil
}
