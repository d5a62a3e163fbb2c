// Package scoring converts raw key-result progress into scores and
// red/amber/green health.
//
//	on track:  score >= 0.7
//	at risk:   score >= 0.3
//	off track: score <  0.3
package scoring

import (
	"math"

	"github.com/arnold/okrs-api/internal/models"
)

// Lower bounds (inclusive) of the on-track and at-risk bands.
const (
	OnTrackThreshold = 0.7
	AtRiskThreshold  = 0.3
)

// ScoreToRAG classifies a score. Any real input is accepted.
func ScoreToRAG(score float64) models.KRStatus {
	if score >= OnTrackThreshold {
		return models.StatusOnTrack
	}
	if score >= AtRiskThreshold {
		return models.StatusAtRisk
	}
	return models.StatusOffTrack
}

// CalculateKRScore returns current/target capped at 1, rounded to two
// decimals. A non-positive target scores 0.
func CalculateKRScore(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return Round2(math.Min(current/target, 1))
}

// CalculateObjectiveScore is the rounded mean of the key-result scores, or 0
// when there are none.
func CalculateObjectiveScore(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return Round2(sum / float64(len(scores)))
}

// DeriveObjectiveRAG picks the worst status. An objective without key
// results is on track.
func DeriveObjectiveRAG(statuses []models.KRStatus) models.KRStatus {
	result := models.StatusOnTrack
	for _, s := range statuses {
		switch s {
		case models.StatusOffTrack:
			return models.StatusOffTrack
		case models.StatusAtRisk:
			result = models.StatusAtRisk
		}
	}
	return result
}

// Distribution is a RAG breakdown with whole-number percentages.
type Distribution struct {
	OnTrack     int `json:"onTrack"`
	AtRisk      int `json:"atRisk"`
	OffTrack    int `json:"offTrack"`
	Total       int `json:"total"`
	PctOnTrack  int `json:"pctOnTrack"`
	PctAtRisk   int `json:"pctAtRisk"`
	PctOffTrack int `json:"pctOffTrack"`
}

// CountRAGDistribution counts statuses per bucket. Each percentage is
// rounded on its own, so the three need not add up to 100.
func CountRAGDistribution(statuses []models.KRStatus) Distribution {
	var d Distribution
	for _, s := range statuses {
		switch s {
		case models.StatusOnTrack:
			d.OnTrack++
		case models.StatusAtRisk:
			d.AtRisk++
		case models.StatusOffTrack:
			d.OffTrack++
		}
	}
	d.Total = len(statuses)
	if d.Total > 0 {
		d.PctOnTrack = percent(d.OnTrack, d.Total)
		d.PctAtRisk = percent(d.AtRisk, d.Total)
		d.PctOffTrack = percent(d.OffTrack, d.Total)
	}
	return d
}

// Round2 rounds half up to two decimals by scaling through hundredths.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

func percent(count, total int) int {
	return int(math.Floor(float64(count)/float64(total)*100 + 0.5))
}
