package engine

import (
	"github.com/shopspring/decimal"

	"github.com/vitalpark/fleet-engine/pkg/apperrors"
	"github.com/vitalpark/fleet-engine/pkg/models"
)

// JoinResult is the joined but not yet scored equipment table.
type JoinResult struct {
	Assets []models.ConsolidatedAsset

	// OrphanedOrders resolved to an identifier with no inventory row. They
	// feed no asset aggregate; the count is surfaced rather than guessed
	// away.
	OrphanedOrders   int
	UnweightedAssets int
	NeverServiced    int
}

// JoinInventory left-joins the inventory against the unified order
// aggregates and the criticality lookup. Every inventory row survives: a
// never-serviced asset gets zero-filled aggregates, an unweighted asset
// gets the neutral default. Unmatched service orders produce no phantom
// assets. An empty inventory fails the run.
func JoinInventory(inventory []models.InventoryAsset, unified *UnifyResult, crit *CriticalityLookup) (*JoinResult, error) {
	if len(inventory) == 0 {
		return nil, apperrors.ErrEmptyInventory
	}

	result := &JoinResult{
		Assets: make([]models.ConsolidatedAsset, 0, len(inventory)),
	}

	known := make(map[string]bool, len(inventory))
	for _, asset := range inventory {
		known[asset.Identifier] = true
	}
	for id, agg := range unified.Aggregates {
		if !known[id] {
			result.OrphanedOrders += agg.OrderCount
		}
	}

	for _, asset := range inventory {
		row := models.ConsolidatedAsset{
			InventoryAsset:    asset,
			TotalExternalCost: decimal.Zero,
		}

		weight, matched := crit.Lookup(asset.EquipmentType, asset.Model, asset.Brand)
		row.CriticalityWeight = weight
		if !matched {
			result.UnweightedAssets++
		}

		if agg, ok := unified.Aggregates[asset.Identifier]; ok {
			row.OrderCount = agg.OrderCount
			row.OpenOrderCount = agg.OpenOrderCount
			row.TotalExternalCost = agg.TotalExternalCost
			row.LastServiceAt = agg.LastServiceAt
		} else {
			result.NeverServiced++
		}

		result.Assets = append(result.Assets, row)
	}

	return result, nil
}
