package ingest

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitalpark/fleet-engine/pkg/apperrors"
	"github.com/vitalpark/fleet-engine/pkg/identity"
	"github.com/vitalpark/fleet-engine/pkg/models"
)

// Legacy order export columns (2018-2024 external corrective orders).
var legacyColumns = []string{
	"O.S", "Tipo", "Modelo", "Marca",
	"Data Início SE", "Data Conclusão SE",
	"Fornecedor", "Custo", "TAG", "Patrimônio",
}

// Recent order export columns. The supplier column name literally contains
// the field separator and arrives quoted.
var recentColumns = []string{
	"O.S", "Tipo", "Modelo", "Marca",
	"Abertura", "Fechamento",
	"Serviço;Assistência", "Custo",
	"Identificador (Patrimônio, ID, TAG)",
}

// ReadLegacyOrders normalizes the legacy service-order history into the
// canonical schema. Rows failing type coercion are skipped and counted in
// the report; a missing column aborts with a SchemaError.
func ReadLegacyOrders(r io.Reader) ([]models.ServiceOrder, *SourceReport, error) {
	table, err := ParseTable(SourceLegacyOrders, r, legacyColumns)
	if err != nil {
		return nil, nil, err
	}

	report := &SourceReport{Source: SourceLegacyOrders}
	var orders []models.ServiceOrder
	for i, row := range table.Rows {
		report.RowCount++
		order, recErr := buildOrder(table, row, i+1, orderFields{
			opened:   "Data Início SE",
			closed:   "Data Conclusão SE",
			supplier: "Fornecedor",
			source:   models.OrderSourceLegacy,
		})
		if recErr != nil {
			report.recordError(recErr)
			continue
		}
		order.EquipmentIdentifier = identity.ResolveLegacy(table.Get(row, "TAG"), table.Get(row, "Patrimônio"))
		if order.DateFlagged {
			report.FlaggedDates++
		}
		orders = append(orders, *order)
	}
	return orders, report, nil
}

// ReadRecentOrders normalizes the recent service-order history into the
// canonical schema.
func ReadRecentOrders(r io.Reader) ([]models.ServiceOrder, *SourceReport, error) {
	table, err := ParseTable(SourceRecentOrders, r, recentColumns)
	if err != nil {
		return nil, nil, err
	}

	report := &SourceReport{Source: SourceRecentOrders}
	var orders []models.ServiceOrder
	for i, row := range table.Rows {
		report.RowCount++
		order, recErr := buildOrder(table, row, i+1, orderFields{
			opened:   "Abertura",
			closed:   "Fechamento",
			supplier: "Serviço;Assistência",
			source:   models.OrderSourceRecent,
		})
		if recErr != nil {
			report.recordError(recErr)
			continue
		}
		order.EquipmentIdentifier = identity.ResolveRecent(table.Get(row, "Identificador (Patrimônio, ID, TAG)"))
		if order.DateFlagged {
			report.FlaggedDates++
		}
		orders = append(orders, *order)
	}
	return orders, report, nil
}

// orderFields names the per-source columns feeding the shared order fields.
type orderFields struct {
	opened   string
	closed   string
	supplier string
	source   models.OrderSource
}

func buildOrder(table *Table, row []string, rowNum int, f orderFields) (*models.ServiceOrder, *apperrors.RecordError) {
	openedRaw := table.Get(row, f.opened)
	if openedRaw == "" {
		return nil, &apperrors.RecordError{
			Source: table.Source, Row: rowNum, Field: f.opened,
			Reason: "opening date is mandatory",
		}
	}
	opened, err := ParseDate(openedRaw)
	if err != nil {
		return nil, &apperrors.RecordError{
			Source: table.Source, Row: rowNum, Field: f.opened, Value: openedRaw,
			Reason: "unparseable opening date",
		}
	}

	var closed *time.Time
	if closedRaw := table.Get(row, f.closed); closedRaw != "" {
		c, err := ParseDate(closedRaw)
		if err != nil {
			return nil, &apperrors.RecordError{
				Source: table.Source, Row: rowNum, Field: f.closed, Value: closedRaw,
				Reason: "unparseable closing date",
			}
		}
		closed = &c
	}

	// A blank cost means "no external cost", not a malformed row.
	cost := decimal.Zero
	if costRaw := table.Get(row, "Custo"); costRaw != "" {
		cost, err = ParseCurrency(costRaw)
		if err != nil {
			return nil, &apperrors.RecordError{
				Source: table.Source, Row: rowNum, Field: "Custo", Value: costRaw,
				Reason: "non-numeric cost",
			}
		}
		if cost.IsNegative() {
			return nil, &apperrors.RecordError{
				Source: table.Source, Row: rowNum, Field: "Custo", Value: costRaw,
				Reason: "negative cost",
			}
		}
	}

	return &models.ServiceOrder{
		OrderID:       table.Get(row, "O.S"),
		EquipmentType: table.Get(row, "Tipo"),
		Model:         table.Get(row, "Modelo"),
		Brand:         table.Get(row, "Marca"),
		OpenedAt:      opened,
		ClosedAt:      closed,
		Supplier:      table.Get(row, f.supplier),
		Cost:          cost,
		Source:        f.source,
		DateFlagged:   closed != nil && closed.Before(opened),
	}, nil
}
