package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryAsset is one row of the master equipment inventory. The inventory
// is the authoritative identity table: every consolidated output row
// corresponds to exactly one InventoryAsset.
type InventoryAsset struct {
	Identifier    string     `json:"identifier"`
	EquipmentType string     `json:"equipment_type"`
	Model         string     `json:"model"`
	Brand         string     `json:"brand"`
	Location      string     `json:"location"`
	AcquiredAt    *time.Time `json:"acquired_at,omitempty"`

	// Value is the declared asset value in BRL. Null when the source cell
	// was blank; a blank value is never coerced to zero.
	Value decimal.NullDecimal `json:"value"`
}
