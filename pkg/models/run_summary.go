package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RunSummary describes one consolidation run. Row-level problems never fail
// a run; every skipped or defaulted record shows up in one of these
// counters so nothing is swallowed silently.
type RunSummary struct {
	RunID      uuid.UUID `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Assets int `json:"assets"`
	// Orders is the number of unified service orders after deduplication.
	Orders          int `json:"orders"`
	DuplicateOrders int `json:"duplicate_orders"`
	// UnmatchedOrders had no resolvable equipment identifier.
	UnmatchedOrders int `json:"unmatched_orders"`
	// OrphanedOrders resolved to an identifier that is not in the
	// inventory. Neither dropped nor treated as an error; surfaced for
	// product-owner clarification.
	OrphanedOrders int `json:"orphaned_orders"`

	// MalformedRows counts skipped rows per input source.
	MalformedRows map[string]int `json:"malformed_rows"`
	// FlaggedDateOrders closed before they opened; kept but flagged.
	FlaggedDateOrders int `json:"flagged_date_orders"`

	UnweightedAssets             int `json:"unweighted_assets"`
	NeverServicedAssets          int `json:"never_serviced_assets"`
	AssetsWithoutAcquisitionDate int `json:"assets_without_acquisition_date"`

	TotalExternalCost decimal.Decimal `json:"total_external_cost"`
}

// TotalMalformedRows sums the per-source malformed counters.
func (s *RunSummary) TotalMalformedRows() int {
	total := 0
	for _, n := range s.MalformedRows {
		total += n
	}
	return total
}
