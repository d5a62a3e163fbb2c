package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arnold/okrs-api/internal/models"
)

// Gorm implements every store interface on a gorm connection.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

var (
	_ OKRStore          = (*Gorm)(nil)
	_ CycleStore        = (*Gorm)(nil)
	_ TeamStore         = (*Gorm)(nil)
	_ ProfileStore      = (*Gorm)(nil)
	_ NotificationStore = (*Gorm)(nil)
	_ OrganisationStore = (*Gorm)(nil)
)

func (s *Gorm) Transaction(ctx context.Context, fn func(OKRStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func orderByCreated(db *gorm.DB) *gorm.DB {
	return db.Order("created_at")
}

// Objectives

func (s *Gorm) GetObjective(ctx context.Context, id uuid.UUID) (*models.Objective, error) {
	var objective models.Objective
	err := s.db.WithContext(ctx).
		Preload("KeyResults", orderByCreated).
		Preload("KeyResults.Assignees").
		Where("id = ?", id).
		First(&objective).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &objective, nil
}

func (s *Gorm) ListObjectives(ctx context.Context, organisationID uuid.UUID, filters models.ObjectiveFilters) ([]models.Objective, error) {
	query := s.db.WithContext(ctx).
		Preload("KeyResults", orderByCreated).
		Preload("KeyResults.Assignees")

	if organisationID != uuid.Nil {
		query = query.Where("organisation_id = ?", organisationID)
	}
	if filters.CycleID != nil {
		query = query.Where("cycle_id = ?", *filters.CycleID)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.TeamID != nil {
		query = query.Where("team_id = ?", *filters.TeamID)
	}
	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	var objectives []models.Objective
	if err := query.Order("created_at DESC").Find(&objectives).Error; err != nil {
		return nil, err
	}
	return objectives, nil
}

func (s *Gorm) CreateObjective(ctx context.Context, objective *models.Objective) error {
	return s.db.WithContext(ctx).Create(objective).Error
}

func (s *Gorm) UpdateObjective(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.Objective, error) {
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Objective{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetObjective(ctx, id)
}

func (s *Gorm) UpdateObjectiveScore(ctx context.Context, id uuid.UUID, score float64) error {
	res := s.db.WithContext(ctx).Model(&models.Objective{}).Where("id = ?", id).Update("score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteObjective removes the objective with its key results and their
// assignee rows. Check-ins are kept.
func (s *Gorm) DeleteObjective(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var krIDs []uuid.UUID
		if err := tx.Model(&models.KeyResult{}).Where("objective_id = ?", id).Pluck("id", &krIDs).Error; err != nil {
			return err
		}
		if len(krIDs) > 0 {
			if err := tx.Where("key_result_id IN ?", krIDs).Delete(&models.KRAssignee{}).Error; err != nil {
				return err
			}
			if err := tx.Where("objective_id = ?", id).Delete(&models.KeyResult{}).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&models.Objective{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Key results

func (s *Gorm) GetKeyResult(ctx context.Context, id uuid.UUID) (*models.KeyResult, error) {
	var kr models.KeyResult
	if err := s.db.WithContext(ctx).Preload("Assignees").Where("id = ?", id).First(&kr).Error; err != nil {
		return nil, notFound(err)
	}
	return &kr, nil
}

func (s *Gorm) ListKeyResults(ctx context.Context, objectiveID uuid.UUID) ([]models.KeyResult, error) {
	var krs []models.KeyResult
	err := s.db.WithContext(ctx).
		Preload("Assignees").
		Where("objective_id = ?", objectiveID).
		Order("created_at").
		Find(&krs).Error
	if err != nil {
		return nil, err
	}
	return krs, nil
}

func (s *Gorm) ListKeyResultScores(ctx context.Context, objectiveID uuid.UUID) ([]float64, error) {
	var scores []float64
	err := s.db.WithContext(ctx).
		Model(&models.KeyResult{}).
		Where("objective_id = ?", objectiveID).
		Pluck("score", &scores).Error
	if err != nil {
		return nil, err
	}
	return scores, nil
}

func (s *Gorm) CreateKeyResult(ctx context.Context, kr *models.KeyResult) error {
	// junction rows are written by InsertAssignees, never through the association
	return s.db.WithContext(ctx).Omit("Assignees").Create(kr).Error
}

func (s *Gorm) UpdateKeyResult(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.KeyResult, error) {
	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.KeyResult{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetKeyResult(ctx, id)
}

func (s *Gorm) DeleteKeyResult(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key_result_id = ?", id).Delete(&models.KRAssignee{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.KeyResult{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Assignees

func (s *Gorm) ListAssignees(ctx context.Context, keyResultID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(&models.KRAssignee{}).
		Where("key_result_id = ?", keyResultID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Gorm) DeleteAssignees(ctx context.Context, keyResultID uuid.UUID) error {
	return s.db.WithContext(ctx).Where("key_result_id = ?", keyResultID).Delete(&models.KRAssignee{}).Error
}

func (s *Gorm) InsertAssignees(ctx context.Context, keyResultID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]models.KRAssignee, 0, len(userIDs))
	for _, userID := range userIDs {
		rows = append(rows, models.KRAssignee{KeyResultID: keyResultID, UserID: userID})
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}

// Check-ins

func (s *Gorm) InsertCheckIn(ctx context.Context, checkIn *models.CheckIn) error {
	return s.db.WithContext(ctx).Omit("Author").Create(checkIn).Error
}

func (s *Gorm) ListCheckIns(ctx context.Context, keyResultID uuid.UUID) ([]models.CheckIn, error) {
	var checkIns []models.CheckIn
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("key_result_id = ?", keyResultID).
		Order("created_at DESC").
		Find(&checkIns).Error
	if err != nil {
		return nil, err
	}
	return checkIns, nil
}
