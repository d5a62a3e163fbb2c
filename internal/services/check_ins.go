package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/scoring"
	"github.com/arnold/okrs-api/internal/store"
)

type CheckInResult struct {
	CheckIn   *models.CheckIn   `json:"checkIn"`
	KeyResult *models.KeyResult `json:"keyResult"`
}

// CreateCheckIn records a check-in and overwrites the key result's current
// value, status and score with it, then recomputes the objective score.
func (s *OKRService) CreateCheckIn(ctx context.Context, keyResultID, authorID uuid.UUID, req models.CreateCheckInRequest) (*CheckInResult, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	result := &CheckInResult{}
	err := s.mutate(ctx, func(st store.OKRStore) (uuid.UUID, error) {
		kr, err := st.GetKeyResult(ctx, keyResultID)
		if err != nil {
			return uuid.Nil, err
		}

		checkIn := &models.CheckIn{
			KeyResultID: keyResultID,
			AuthorID:    authorID,
			Value:       req.Value,
			Status:      req.Status,
			Comment:     req.Comment,
		}
		if err := st.InsertCheckIn(ctx, checkIn); err != nil {
			return uuid.Nil, fmt.Errorf("insert check-in: %w", err)
		}
		result.CheckIn = checkIn

		updated, err := st.UpdateKeyResult(ctx, keyResultID, map[string]interface{}{
			"current_value": req.Value,
			"status":        req.Status,
			"score":         scoring.CalculateKRScore(req.Value, kr.TargetValue),
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("update key result snapshot: %w", err)
		}
		result.KeyResult = updated
		return kr.ObjectiveID, nil
	})
	if err != nil {
		s.logger.Error("Failed to create check-in",
			zap.String("key_result_id", keyResultID.String()),
			zap.String("author_id", authorID.String()),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

// ListCheckIns returns a key result's check-ins, newest first.
func (s *OKRService) ListCheckIns(ctx context.Context, keyResultID uuid.UUID) ([]models.CheckIn, error) {
	return s.store.ListCheckIns(ctx, keyResultID)
}
