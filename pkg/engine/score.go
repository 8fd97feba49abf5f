package engine

import (
	"sort"
	"time"

	"github.com/vitalpark/fleet-engine/pkg/models"
)

// ScoreWeights are the fixed feature weights of the priority score. They
// must sum to 1 (validated by config at load time).
type ScoreWeights struct {
	Criticality float64
	Cost        float64
	Age         float64
	Frequency   float64
}

// DefaultScoreWeights returns the documented default weighting.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Criticality: 0.40, Cost: 0.25, Age: 0.20, Frequency: 0.15}
}

const hoursPerYear = 24 * 365.25

// ScoreAndRank computes each asset's priority score and sorts the slice
// into final priority order, assigning dense ranks 1..N.
//
// Each feature (criticality weight, total external cost, age in years,
// order count) is min-max normalized across the current population, so
// scores are relative to this fleet snapshot. A feature with zero variance
// contributes its neutral midpoint 0.5 uniformly; this also covers a
// population of size 1. The reference time is injected so a run is a pure
// function of its inputs.
//
// The resulting order is a deterministic total order: score descending,
// then criticality weight descending, then identifier ascending.
func ScoreAndRank(assets []models.ConsolidatedAsset, now time.Time, w ScoreWeights) []models.ConsolidatedAsset {
	if len(assets) == 0 {
		return assets
	}

	crit := make([]float64, len(assets))
	cost := make([]float64, len(assets))
	age := make([]float64, len(assets))
	freq := make([]float64, len(assets))
	for i, a := range assets {
		crit[i] = float64(a.CriticalityWeight)
		cost[i] = a.TotalExternalCost.InexactFloat64()
		age[i] = ageYears(a.AcquiredAt, now)
		freq[i] = float64(a.OrderCount)
	}

	critN := minMaxNormalize(crit)
	costN := minMaxNormalize(cost)
	ageN := minMaxNormalize(age)
	freqN := minMaxNormalize(freq)

	for i := range assets {
		score := 100 * (w.Criticality*critN[i] + w.Cost*costN[i] + w.Age*ageN[i] + w.Frequency*freqN[i])
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		assets[i].PriorityScore = score
	}

	sort.SliceStable(assets, func(i, j int) bool {
		if assets[i].PriorityScore != assets[j].PriorityScore {
			return assets[i].PriorityScore > assets[j].PriorityScore
		}
		if assets[i].CriticalityWeight != assets[j].CriticalityWeight {
			return assets[i].CriticalityWeight > assets[j].CriticalityWeight
		}
		return assets[i].Identifier < assets[j].Identifier
	})

	for i := range assets {
		assets[i].PriorityRank = i + 1
	}
	return assets
}

// ageYears returns the asset's age in fractional years at the reference
// time. An unknown acquisition date counts as age zero (newest-equivalent)
// rather than excluding the asset.
func ageYears(acquiredAt *time.Time, now time.Time) float64 {
	if acquiredAt == nil || acquiredAt.After(now) {
		return 0
	}
	return now.Sub(*acquiredAt).Hours() / hoursPerYear
}

// minMaxNormalize scales values into [0, 1] over the population. With zero
// variance (min == max) every value maps to the neutral midpoint 0.5.
func minMaxNormalize(values []float64) []float64 {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	normalized := make([]float64, len(values))
	if max == min {
		for i := range normalized {
			normalized[i] = 0.5
		}
		return normalized
	}
	for i, v := range values {
		normalized[i] = (v - min) / (max - min)
	}
	return normalized
}
