package models

// CriticalityEntry is one row of the criticality-weighting table. Weight is
// a small positive integer (1-3) expressing how operationally critical an
// equipment type/model is.
type CriticalityEntry struct {
	Weight        int    `json:"weight"`
	EquipmentType string `json:"equipment_type"`
	Model         string `json:"model"`
	Supplier      string `json:"supplier"`
}
