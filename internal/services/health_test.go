package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/arnold/okrs-api/internal/models"
)

func krWithStatus(s models.KRStatus) models.KeyResult {
	return models.KeyResult{ID: uuid.New(), Status: s}
}

func TestSummarize(t *testing.T) {
	objectives := []models.Objective{
		{
			ID:    uuid.New(),
			Title: "Grow",
			Score: 0.8,
			KeyResults: []models.KeyResult{
				krWithStatus(models.StatusOnTrack),
				krWithStatus(models.StatusAtRisk),
			},
		},
		{
			ID:    uuid.New(),
			Title: "Retain",
			Score: 0.2,
			KeyResults: []models.KeyResult{
				krWithStatus(models.StatusOffTrack),
			},
		},
		{ID: uuid.New(), Title: "Empty"},
	}

	summary := Summarize(objectives)
	assert.Len(t, summary.Objectives, 3)

	assert.Equal(t, models.StatusAtRisk, summary.Objectives[0].Status)
	assert.Equal(t, models.StatusOnTrack, summary.Objectives[0].ScoreRAG)
	assert.Equal(t, 2, summary.Objectives[0].KeyResults)

	assert.Equal(t, models.StatusOffTrack, summary.Objectives[1].Status)
	assert.Equal(t, models.StatusOffTrack, summary.Objectives[1].ScoreRAG)

	assert.Equal(t, models.StatusOnTrack, summary.Objectives[2].Status)
	assert.Equal(t, models.StatusOffTrack, summary.Objectives[2].ScoreRAG)

	assert.Equal(t, 3, summary.KeyResults.Total)
	assert.Equal(t, 1, summary.KeyResults.OnTrack)
	assert.Equal(t, 1, summary.KeyResults.AtRisk)
	assert.Equal(t, 1, summary.KeyResults.OffTrack)
	assert.Equal(t, 33, summary.KeyResults.PctOnTrack)
	assert.Equal(t, 0.33, summary.AverageScore)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Empty(t, summary.Objectives)
	assert.Equal(t, 0, summary.KeyResults.Total)
	assert.Equal(t, 0, summary.KeyResults.PctOnTrack)
	assert.Equal(t, 0.0, summary.AverageScore)
}
