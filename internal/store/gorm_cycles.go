package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnold/okrs-api/internal/models"
)

func (s *Gorm) ListCycles(ctx context.Context, organisationID uuid.UUID) ([]models.Cycle, error) {
	var cycles []models.Cycle
	err := s.db.WithContext(ctx).
		Where("organisation_id = ?", organisationID).
		Order("start_date DESC").
		Find(&cycles).Error
	if err != nil {
		return nil, err
	}
	return cycles, nil
}

func (s *Gorm) GetCycle(ctx context.Context, id uuid.UUID) (*models.Cycle, error) {
	var cycle models.Cycle
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&cycle).Error; err != nil {
		return nil, notFound(err)
	}
	return &cycle, nil
}

func (s *Gorm) GetActiveCycle(ctx context.Context, organisationID uuid.UUID) (*models.Cycle, error) {
	var cycles []models.Cycle
	err := s.db.WithContext(ctx).
		Where("organisation_id = ? AND is_active = ?", organisationID, true).
		Limit(1).
		Find(&cycles).Error
	if err != nil {
		return nil, err
	}
	if len(cycles) == 0 {
		return nil, nil
	}
	return &cycles[0], nil
}

func (s *Gorm) CreateCycle(ctx context.Context, cycle *models.Cycle) error {
	return s.db.WithContext(ctx).Create(cycle).Error
}

func (s *Gorm) UpdateCycle(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Cycle, error) {
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Cycle{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetCycle(ctx, id)
}

// SetActiveCycle deactivates the organisation's current cycle and activates
// the given one.
func (s *Gorm) SetActiveCycle(ctx context.Context, organisationID, cycleID uuid.UUID) (*models.Cycle, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Cycle{}).
			Where("organisation_id = ? AND is_active = ?", organisationID, true).
			Update("is_active", false).Error
		if err != nil {
			return err
		}
		res := tx.Model(&models.Cycle{}).
			Where("id = ? AND organisation_id = ?", cycleID, organisationID).
			Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetCycle(ctx, cycleID)
}

func (s *Gorm) ListCarryableObjectives(ctx context.Context, cycleID uuid.UUID) ([]models.Objective, error) {
	var objectives []models.Objective
	err := s.db.WithContext(ctx).
		Preload("KeyResults", orderByCreated).
		Preload("KeyResults.Assignees").
		Where("cycle_id = ? AND status IN ?", cycleID, []models.ObjectiveStatus{models.ObjectiveStatusDraft, models.ObjectiveStatusActive}).
		Order("created_at").
		Find(&objectives).Error
	if err != nil {
		return nil, err
	}
	return objectives, nil
}
