package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsolidatedAsset is the engine output: one inventory asset joined with
// its aggregated service history and criticality weight, scored and ranked.
type ConsolidatedAsset struct {
	InventoryAsset

	CriticalityWeight int `json:"criticality_weight"`

	// Aggregated service history for this asset's identifier. Zero-filled
	// for assets that were never serviced.
	OrderCount        int             `json:"order_count"`
	OpenOrderCount    int             `json:"open_order_count"`
	TotalExternalCost decimal.Decimal `json:"total_external_cost"`
	LastServiceAt     *time.Time      `json:"last_service_at,omitempty"`

	// PriorityScore is bounded to [0, 100]; PriorityRank is a dense 1..N
	// assignment over the deterministic score ordering.
	PriorityScore float64 `json:"priority_score"`
	PriorityRank  int     `json:"priority_rank"`
}
