package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/arnold/okrs-api/internal/models"
	"github.com/arnold/okrs-api/internal/scoring"
)

type ObjectiveHealth struct {
	ObjectiveID uuid.UUID       `json:"objectiveId"`
	Title       string          `json:"title"`
	Score       float64         `json:"score"`
	ScoreRAG    models.KRStatus `json:"scoreRag"`
	Status      models.KRStatus `json:"status"`
	KeyResults  int             `json:"keyResults"`
}

type HealthSummary struct {
	Objectives   []ObjectiveHealth    `json:"objectives"`
	KeyResults   scoring.Distribution `json:"keyResults"`
	AverageScore float64              `json:"averageScore"`
}

// Summarize rolls objectives up for dashboards: each objective's worst key
// result status, and the status distribution over all key results.
func Summarize(objectives []models.Objective) HealthSummary {
	summary := HealthSummary{Objectives: make([]ObjectiveHealth, 0, len(objectives))}
	var all []models.KRStatus
	scores := make([]float64, 0, len(objectives))

	for _, o := range objectives {
		statuses := make([]models.KRStatus, 0, len(o.KeyResults))
		for _, kr := range o.KeyResults {
			statuses = append(statuses, kr.Status)
		}
		all = append(all, statuses...)
		scores = append(scores, o.Score)

		summary.Objectives = append(summary.Objectives, ObjectiveHealth{
			ObjectiveID: o.ID,
			Title:       o.Title,
			Score:       o.Score,
			ScoreRAG:    scoring.ScoreToRAG(o.Score),
			Status:      scoring.DeriveObjectiveRAG(statuses),
			KeyResults:  len(o.KeyResults),
		})
	}

	summary.KeyResults = scoring.CountRAGDistribution(all)
	summary.AverageScore = scoring.CalculateObjectiveScore(scores)
	return summary
}

func (s *OKRService) CycleHealth(ctx context.Context, organisationID, cycleID uuid.UUID) (*HealthSummary, error) {
	objectives, err := s.store.ListObjectives(ctx, organisationID, models.ObjectiveFilters{CycleID: &cycleID})
	if err != nil {
		return nil, err
	}
	summary := Summarize(objectives)
	return &summary, nil
}

func (s *OKRService) TeamHealth(ctx context.Context, organisationID, teamID uuid.UUID, cycleID *uuid.UUID) (*HealthSummary, error) {
	objectives, err := s.store.ListObjectives(ctx, organisationID, models.ObjectiveFilters{TeamID: &teamID, CycleID: cycleID})
	if err != nil {
		return nil, err
	}
	summary := Summarize(objectives)
	return &summary, nil
}
