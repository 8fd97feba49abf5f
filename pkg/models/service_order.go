package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSource identifies which service-order history a record came from.
type OrderSource string

const (
	OrderSourceLegacy OrderSource = "LEGACY"
	OrderSourceRecent OrderSource = "RECENT"
)

// ServiceOrder is one maintenance service order in the canonical schema,
// regardless of which input source it was normalized from.
type ServiceOrder struct {
	OrderID       string      `json:"order_id"`
	EquipmentType string      `json:"equipment_type"`
	Model         string      `json:"model"`
	Brand         string      `json:"brand"`
	OpenedAt      time.Time   `json:"opened_at"`
	ClosedAt      *time.Time  `json:"closed_at,omitempty"` // nil while the order is still open
	Supplier      string      `json:"supplier"`
	Cost          decimal.Decimal `json:"cost"`

	// EquipmentIdentifier is the resolved canonical identifier. Empty when
	// no identifier could be derived; such orders are retained but excluded
	// from per-equipment aggregation.
	EquipmentIdentifier string      `json:"equipment_identifier,omitempty"`
	Source              OrderSource `json:"source"`

	// DateFlagged marks orders whose closing date precedes the opening
	// date. Flagged orders are kept, not dropped.
	DateFlagged bool `json:"date_flagged,omitempty"`
}

// LastActivity returns the most recent service activity date: the closing
// date when present, otherwise the opening date (an order still open counts
// as activity at its open date).
func (o *ServiceOrder) LastActivity() time.Time {
	if o.ClosedAt != nil {
		return *o.ClosedAt
	}
	return o.OpenedAt
}
