package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitalpark/fleet-engine/pkg/models"
)

// ObsolescenceYears is the fleet-management age threshold: equipment this
// old or older is considered due for replacement review.
const ObsolescenceYears = 10

// FleetStats are aggregate figures over one consolidated fleet snapshot.
type FleetStats struct {
	TotalAssets       int             `json:"total_assets"`
	TotalExternalCost decimal.Decimal `json:"total_external_cost"`

	AgedAssets     int     `json:"aged_assets"`
	AgedPercentage float64 `json:"aged_percentage"`

	// UnderMaintenance counts assets with at least one open service order.
	UnderMaintenance int `json:"under_maintenance"`
}

// ComputeFleetStats derives fleet-level statistics from the consolidated
// table. The reference time is injected for reproducibility.
func ComputeFleetStats(assets []models.ConsolidatedAsset, now time.Time) FleetStats {
	stats := FleetStats{
		TotalAssets:       len(assets),
		TotalExternalCost: decimal.Zero,
	}
	for _, a := range assets {
		stats.TotalExternalCost = stats.TotalExternalCost.Add(a.TotalExternalCost)
		if ageYears(a.AcquiredAt, now) >= ObsolescenceYears {
			stats.AgedAssets++
		}
		if a.OpenOrderCount > 0 {
			stats.UnderMaintenance++
		}
	}
	if stats.TotalAssets > 0 {
		stats.AgedPercentage = 100 * float64(stats.AgedAssets) / float64(stats.TotalAssets)
	}
	return stats
}
