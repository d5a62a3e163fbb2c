package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arnold/okrs-api/internal/scoring"
	"github.com/arnold/okrs-api/internal/store"
)

// ScorePropagator keeps Objective.Score equal to the rounded mean of its key
// result scores. It always re-reads the full sibling set and never applies
// deltas, so racing recomputes converge on a state that existed.
type ScorePropagator struct {
	logger *zap.Logger
}

func NewScorePropagator(logger *zap.Logger) *ScorePropagator {
	return &ScorePropagator{logger: logger.Named("score-propagator")}
}

// Recalculate recomputes and persists the objective score through st, which
// may be bound to a transaction.
func (p *ScorePropagator) Recalculate(ctx context.Context, st store.OKRStore, objectiveID uuid.UUID) (float64, error) {
	scores, err := st.ListKeyResultScores(ctx, objectiveID)
	if err != nil {
		return 0, fmt.Errorf("list key result scores: %w", err)
	}

	score := scoring.CalculateObjectiveScore(scores)
	if err := st.UpdateObjectiveScore(ctx, objectiveID, score); err != nil {
		return 0, fmt.Errorf("update objective score: %w", err)
	}

	p.logger.Debug("Recalculated objective score",
		zap.String("objective_id", objectiveID.String()),
		zap.Int("key_results", len(scores)),
		zap.Float64("score", score))
	return score, nil
}
