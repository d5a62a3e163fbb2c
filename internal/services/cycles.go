package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/assignment"
	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/store"
)

type CycleService struct {
	cycles store.CycleStore
	okrs   store.OKRStore
	logger *zap.Logger
}

func NewCycleService(cycles store.CycleStore, okrs store.OKRStore, logger *zap.Logger) *CycleService {
	return &CycleService{
		cycles: cycles,
		okrs:   okrs,
		logger: logger.Named("cycle-service"),
	}
}

func (s *CycleService) ListCycles(ctx context.Context, organisationID uuid.UUID) ([]models.Cycle, error) {
	return s.cycles.ListCycles(ctx, organisationID)
}

func (s *CycleService) GetCycle(ctx context.Context, id uuid.UUID) (*models.Cycle, error) {
	return s.cycles.GetCycle(ctx, id)
}

// GetActiveCycle returns nil without error when no cycle is active.
func (s *CycleService) GetActiveCycle(ctx context.Context, organisationID uuid.UUID) (*models.Cycle, error) {
	return s.cycles.GetActiveCycle(ctx, organisationID)
}

func (s *CycleService) CreateCycle(ctx context.Context, organisationID uuid.UUID, req models.CreateCycleRequest) (*models.Cycle, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidCycle)
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidCycle)
	}

	cycle := &models.Cycle{
		OrganisationID: organisationID,
		Name:           req.Name,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}
	if err := s.cycles.CreateCycle(ctx, cycle); err != nil {
		s.logger.Error("Failed to create cycle", zap.Error(err))
		return nil, err
	}
	return cycle, nil
}

func (s *CycleService) UpdateCycle(ctx context.Context, id uuid.UUID, req models.UpdateCycleRequest) (*models.Cycle, error) {
	current, err := s.cycles.GetCycle(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	start, end := current.StartDate, current.EndDate
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidCycle)
		}
		updates["name"] = *req.Name
	}
	if req.StartDate != nil {
		start = *req.StartDate
		updates["start_date"] = start
	}
	if req.EndDate != nil {
		end = *req.EndDate
		updates["end_date"] = end
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end date must be after start date", ErrInvalidCycle)
	}
	return s.cycles.UpdateCycle(ctx, id, updates)
}

// SetActiveCycle makes the cycle the organisation's only active one.
func (s *CycleService) SetActiveCycle(ctx context.Context, organisationID, cycleID uuid.UUID) (*models.Cycle, error) {
	cycle, err := s.cycles.SetActiveCycle(ctx, organisationID, cycleID)
	if err != nil {
		s.logger.Error("Failed to activate cycle",
			zap.String("cycle_id", cycleID.String()),
			zap.Error(err))
		return nil, err
	}
	return cycle, nil
}

func (s *CycleService) CloseCycle(ctx context.Context, id uuid.UUID) (*models.Cycle, error) {
	return s.cycles.UpdateCycle(ctx, id, map[string]interface{}{"is_active": false})
}

// CarryForward copies the draft and active objectives of one cycle into
// another as drafts. Copied key results restart from zero but keep their
// assignment, so the new objectives score 0 without a recompute.
func (s *CycleService) CarryForward(ctx context.Context, organisationID, fromCycleID, toCycleID uuid.UUID) ([]models.Objective, error) {
	if fromCycleID == toCycleID {
		return nil, fmt.Errorf("%w: cannot carry a cycle into itself", ErrInvalidCycle)
	}
	target, err := s.cycles.GetCycle(ctx, toCycleID)
	if err != nil {
		return nil, fmt.Errorf("load target cycle: %w", err)
	}
	if target.OrganisationID != organisationID {
		return nil, store.ErrNotFound
	}

	objectives, err := s.cycles.ListCarryableObjectives(ctx, fromCycleID)
	if err != nil {
		return nil, err
	}

	carried := make([]models.Objective, 0, len(objectives))
	for _, obj := range objectives {
		if obj.OrganisationID != organisationID {
			continue
		}
		var copied *models.Objective
		err := s.okrs.Transaction(ctx, func(tx store.OKRStore) error {
			var err error
			copied, err = carryObjective(ctx, tx, obj, toCycleID)
			return err
		})
		if err != nil {
			s.logger.Error("Failed to carry objective forward",
				zap.String("objective_id", obj.ID.String()),
				zap.String("to_cycle_id", toCycleID.String()),
				zap.Error(err))
			return carried, err
		}
		carried = append(carried, *copied)
	}

	s.logger.Info("Carried objectives forward",
		zap.String("from_cycle_id", fromCycleID.String()),
		zap.String("to_cycle_id", toCycleID.String()),
		zap.Int("objectives", len(carried)))
	return carried, nil
}

func carryObjective(ctx context.Context, tx store.OKRStore, obj models.Objective, toCycleID uuid.UUID) (*models.Objective, error) {
	copied := &models.Objective{
		OrganisationID: obj.OrganisationID,
		CycleID:        toCycleID,
		TeamID:         obj.TeamID,
		OwnerID:        obj.OwnerID,
		Type:           obj.Type,
		Title:          obj.Title,
		Description:    obj.Description,
		Status:         models.ObjectiveStatusDraft,
		Score:          0,
	}
	if err := tx.CreateObjective(ctx, copied); err != nil {
		return nil, err
	}

	for i := range obj.KeyResults {
		src := &obj.KeyResults[i]
		a := assignment.Of(src)
		kr := &models.KeyResult{
			ObjectiveID:    copied.ID,
			Title:          src.Title,
			Description:    src.Description,
			TargetValue:    src.TargetValue,
			CurrentValue:   0,
			Unit:           src.Unit,
			Score:          0,
			Status:         models.StatusOnTrack,
			AssignmentType: a.Type(),
			AssigneeID:     a.LegacyAssigneeID(),
		}
		if err := tx.CreateKeyResult(ctx, kr); err != nil {
			return nil, err
		}
		if err := tx.InsertAssignees(ctx, kr.ID, a.Users()); err != nil {
			return nil, err
		}
		copied.KeyResults = append(copied.KeyResults, *kr)
	}
	return copied, nil
}
