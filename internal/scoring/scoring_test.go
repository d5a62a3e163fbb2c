package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arnold/okrs-api/internal/models"
)

func TestScoreToRAG(t *testing.T) {
	tests := []struct {
		score float64
		want  models.KRStatus
	}{
		{-1, models.StatusOffTrack},
		{0, models.StatusOffTrack},
		{0.29, models.StatusOffTrack},
		{0.3, models.StatusAtRisk},
		{0.5, models.StatusAtRisk},
		{0.69, models.StatusAtRisk},
		{0.7, models.StatusOnTrack},
		{1, models.StatusOnTrack},
		{1.5, models.StatusOnTrack},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreToRAG(tt.score), "score %v", tt.score)
	}
}

func TestScoreToRAG_Monotonic(t *testing.T) {
	rank := map[models.KRStatus]int{
		models.StatusOffTrack: 0,
		models.StatusAtRisk:   1,
		models.StatusOnTrack:  2,
	}
	prev := rank[ScoreToRAG(-0.5)]
	for s := -0.5; s <= 1.5; s += 0.01 {
		cur := rank[ScoreToRAG(s)]
		assert.GreaterOrEqual(t, cur, prev, "score %v", s)
		prev = cur
	}
}

func TestCalculateKRScore(t *testing.T) {
	assert.Equal(t, 0.5, CalculateKRScore(50, 100))
	assert.Equal(t, 1.0, CalculateKRScore(150, 100))
	assert.Equal(t, 0.33, CalculateKRScore(1, 3))
	assert.Equal(t, 0.67, CalculateKRScore(2, 3))
	assert.Equal(t, 0.75, CalculateKRScore(75, 100))
	assert.Equal(t, 1.0, CalculateKRScore(120, 100))
	assert.Equal(t, 0.0, CalculateKRScore(0, 100))
}

func TestCalculateKRScore_NonPositiveTarget(t *testing.T) {
	for _, target := range []float64{0, -1, -100} {
		assert.Equal(t, 0.0, CalculateKRScore(50, target))
		assert.Equal(t, 0.0, CalculateKRScore(-50, target))
	}
}

func TestCalculateKRScore_Rounding(t *testing.T) {
	cases := []struct {
		current, target float64
		want            float64
	}{
		{14, 100, 0.14},
		{1, 7, 0.14},
		{5, 7, 0.71},
		{49, 240, 0.2},
		{133, 240, 0.55},
		{1, 8, 0.13}, // 0.125 rounds half up
		{3, 8, 0.38}, // 0.375 rounds half up
		{7, 3, 1.0},  // capped
		{250, 240, 1.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CalculateKRScore(tc.current, tc.target), "%v/%v", tc.current, tc.target)
	}
}

func TestCalculateObjectiveScore(t *testing.T) {
	assert.Equal(t, 0.0, CalculateObjectiveScore(nil))
	assert.Equal(t, 0.0, CalculateObjectiveScore([]float64{}))
	assert.Equal(t, 0.75, CalculateObjectiveScore([]float64{0.5, 1.0}))
	assert.Equal(t, 0.33, CalculateObjectiveScore([]float64{0.33, 0.33, 0.34}))
	assert.Equal(t, 0.4, CalculateObjectiveScore([]float64{0.4}))
}

func TestDeriveObjectiveRAG(t *testing.T) {
	assert.Equal(t, models.StatusOnTrack, DeriveObjectiveRAG(nil))
	assert.Equal(t, models.StatusOnTrack, DeriveObjectiveRAG([]models.KRStatus{models.StatusOnTrack, models.StatusOnTrack}))
	assert.Equal(t, models.StatusAtRisk, DeriveObjectiveRAG([]models.KRStatus{models.StatusOnTrack, models.StatusAtRisk}))
	assert.Equal(t, models.StatusOffTrack, DeriveObjectiveRAG([]models.KRStatus{models.StatusAtRisk, models.StatusOffTrack, models.StatusOnTrack}))
	assert.Equal(t, models.StatusOffTrack, DeriveObjectiveRAG([]models.KRStatus{models.StatusOffTrack}))
}

func TestCountRAGDistribution(t *testing.T) {
	d := CountRAGDistribution([]models.KRStatus{
		models.StatusOnTrack, models.StatusOnTrack, models.StatusAtRisk, models.StatusOffTrack,
	})
	assert.Equal(t, Distribution{
		OnTrack: 2, AtRisk: 1, OffTrack: 1, Total: 4,
		PctOnTrack: 50, PctAtRisk: 25, PctOffTrack: 25,
	}, d)
}

func TestCountRAGDistribution_IndependentRounding(t *testing.T) {
	d := CountRAGDistribution([]models.KRStatus{models.StatusOnTrack, models.StatusAtRisk, models.StatusOffTrack})
	assert.Equal(t, 33, d.PctOnTrack)
	assert.Equal(t, 33, d.PctAtRisk)
	assert.Equal(t, 33, d.PctOffTrack)
	assert.Equal(t, 3, d.Total)
}

func TestCountRAGDistribution_Empty(t *testing.T) {
	assert.Equal(t, Distribution{}, CountRAGDistribution(nil))
}
