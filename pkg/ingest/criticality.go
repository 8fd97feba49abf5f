package ingest

import (
	"io"
	"strconv"

	"github.com/vitalpark/fleet-engine/pkg/apperrors"
	"github.com/vitalpark/fleet-engine/pkg/models"
)

var criticalityColumns = []string{"Peso", "Tipo Equipamento", "Modelo", "Fornecedor"}

// ReadCriticalityEntries parses the criticality spreadsheet. The export
// carries 5 leading presentation rows before its header (see leadingRows).
// Entries keep file order: key collisions resolve first-match-wins
// downstream.
func ReadCriticalityEntries(r io.Reader) ([]models.CriticalityEntry, *SourceReport, error) {
	table, err := ParseTable(SourceCriticality, r, criticalityColumns)
	if err != nil {
		return nil, nil, err
	}

	report := &SourceReport{Source: SourceCriticality}
	var entries []models.CriticalityEntry
	for i, row := range table.Rows {
		report.RowCount++
		weightRaw := table.Get(row, "Peso")
		if weightRaw == "" {
			// A blank weight is never coerced to zero.
			report.recordError(&apperrors.RecordError{
				Source: table.Source, Row: i + 1, Field: "Peso",
				Reason: "blank weight",
			})
			continue
		}
		weight, err := strconv.Atoi(weightRaw)
		if err != nil {
			report.recordError(&apperrors.RecordError{
				Source: table.Source, Row: i + 1, Field: "Peso", Value: weightRaw,
				Reason: "non-integer weight",
			})
			continue
		}
		if weight <= 0 {
			report.recordError(&apperrors.RecordError{
				Source: table.Source, Row: i + 1, Field: "Peso", Value: weightRaw,
				Reason: "weight must be positive",
			})
			continue
		}
		entries = append(entries, models.CriticalityEntry{
			Weight:        weight,
			EquipmentType: table.Get(row, "Tipo Equipamento"),
			Model:         table.Get(row, "Modelo"),
			Supplier:      table.Get(row, "Fornecedor"),
		})
	}
	return entries, report, nil
}
