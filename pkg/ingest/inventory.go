package ingest

import (
	"io"

	"github.com/shopspring/decimal"

	"github.com/vitalpark/fleet-engine/pkg/apperrors"
	"github.com/vitalpark/fleet-engine/pkg/identity"
	"github.com/vitalpark/fleet-engine/pkg/models"
)

var inventoryColumns = []string{
	"Identificador", "Tipo Equipamento", "Modelo", "Marca",
	"Localização", "Aquisição", "Valor (R$)",
}

// ReadInventoryAssets parses the master inventory. Identifiers are
// canonical after normalization; rows without one, or repeating one already
// seen, are skipped and counted. An unparseable acquisition date leaves the
// asset in the fleet with no date rather than dropping it.
func ReadInventoryAssets(r io.Reader) ([]models.InventoryAsset, *SourceReport, error) {
	table, err := ParseTable(SourceInventory, r, inventoryColumns)
	if err != nil {
		return nil, nil, err
	}

	report := &SourceReport{Source: SourceInventory}
	seen := make(map[string]bool)
	var assets []models.InventoryAsset
	for i, row := range table.Rows {
		report.RowCount++

		id := identity.ResolveInventory(table.Get(row, "Identificador"))
		if id == "" {
			report.recordError(&apperrors.RecordError{
				Source: table.Source, Row: i + 1, Field: "Identificador",
				Reason: "blank identifier",
			})
			continue
		}
		if seen[id] {
			report.recordError(&apperrors.RecordError{
				Source: table.Source, Row: i + 1, Field: "Identificador", Value: id,
				Reason: "duplicate identifier",
			})
			continue
		}

		asset := models.InventoryAsset{
			Identifier:    id,
			EquipmentType: table.Get(row, "Tipo Equipamento"),
			Model:         table.Get(row, "Modelo"),
			Brand:         table.Get(row, "Marca"),
			Location:      table.Get(row, "Localização"),
		}

		if acquiredRaw := table.Get(row, "Aquisição"); acquiredRaw != "" {
			if acquired, err := ParseDate(acquiredRaw); err == nil {
				asset.AcquiredAt = &acquired
			}
			// Unparseable dates leave AcquiredAt nil; the scorer treats the
			// asset as having unknown age and the summary counts it.
		}

		if valueRaw := table.Get(row, "Valor (R$)"); valueRaw != "" {
			value, err := ParseCurrency(valueRaw)
			if err != nil {
				report.recordError(&apperrors.RecordError{
					Source: table.Source, Row: i + 1, Field: "Valor (R$)", Value: valueRaw,
					Reason: "non-numeric value",
				})
				continue
			}
			asset.Value = decimal.NullDecimal{Decimal: value, Valid: true}
		}

		seen[id] = true
		assets = append(assets, asset)
	}
	return assets, report, nil
}
