package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitalpark/fleet-engine/pkg/models"
)

// OrderAggregate is the per-equipment maintenance summary derived from the
// unified order history.
type OrderAggregate struct {
	Identifier        string
	OrderCount        int
	OpenOrderCount    int
	TotalExternalCost decimal.Decimal
	LastServiceAt     *time.Time
}

// UnifyResult holds the unified, deduplicated order table and its
// per-identifier aggregates.
type UnifyResult struct {
	// Orders is the unified table, legacy history first, in input order.
	Orders []models.ServiceOrder
	// Aggregates is keyed by canonical equipment identifier.
	Aggregates map[string]*OrderAggregate

	DuplicatesRemoved int
	// UnmatchedOrders had no resolvable identifier; they are retained in
	// Orders but excluded from Aggregates.
	UnmatchedOrders int
	FlaggedDates    int
}

type dedupKey struct {
	orderID    string
	identifier string
}

// UnifyOrders concatenates the legacy and recent service-order histories
// and aggregates them per equipment identifier.
//
// Two records from different sources sharing both order id and identifier
// describe the same physical service event and are counted once. Records
// sharing only an order id are kept as distinct orders: each source numbers
// independently, so bare id collisions are coincidental. Orders with no
// identifier cannot be deduplicated and never are.
func UnifyOrders(legacy, recent []models.ServiceOrder) *UnifyResult {
	result := &UnifyResult{
		Aggregates: make(map[string]*OrderAggregate),
	}

	seen := make(map[dedupKey]bool)
	for _, order := range append(append([]models.ServiceOrder{}, legacy...), recent...) {
		if order.OrderID != "" && order.EquipmentIdentifier != "" {
			key := dedupKey{orderID: order.OrderID, identifier: order.EquipmentIdentifier}
			if seen[key] {
				result.DuplicatesRemoved++
				continue
			}
			seen[key] = true
		}

		result.Orders = append(result.Orders, order)
		if order.DateFlagged {
			result.FlaggedDates++
		}

		if order.EquipmentIdentifier == "" {
			result.UnmatchedOrders++
			continue
		}

		agg := result.Aggregates[order.EquipmentIdentifier]
		if agg == nil {
			agg = &OrderAggregate{Identifier: order.EquipmentIdentifier, TotalExternalCost: decimal.Zero}
			result.Aggregates[order.EquipmentIdentifier] = agg
		}
		agg.OrderCount++
		if order.ClosedAt == nil {
			agg.OpenOrderCount++
		}
		agg.TotalExternalCost = agg.TotalExternalCost.Add(order.Cost)

		activity := order.LastActivity()
		if agg.LastServiceAt == nil || activity.After(*agg.LastServiceAt) {
			last := activity
			agg.LastServiceAt = &last
		}
	}

	return result
}

// TotalExternalCost sums the cost of every unified order, matched or not.
func (r *UnifyResult) TotalExternalCost() decimal.Decimal {
	total := decimal.Zero
	for _, o := range r.Orders {
		total = total.Add(o.Cost)
	}
	return total
}
