package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vitalpark/fleet-engine/pkg/models"
)

// Output tables use the same field separator as the input spreadsheets.
const fieldSeparator = ';'

const dateLayout = "2006-01-02"

// unifiedOrderColumns is the stable column order of the intermediate table.
var unifiedOrderColumns = []string{
	"order_id", "equipment_type", "model", "brand",
	"opened_at", "closed_at", "supplier", "cost",
	"equipment_identifier", "source", "date_flagged",
}

// consolidatedColumns is the stable column order of the final table.
var consolidatedColumns = []string{
	"identifier", "equipment_type", "model", "brand", "location",
	"acquired_at", "value", "criticality_weight",
	"order_count", "open_order_count", "total_external_cost",
	"last_service_at", "priority_score", "priority_rank",
}

// WriteUnifiedOrders writes the deduplicated unified-orders table.
func WriteUnifiedOrders(path string, orders []models.ServiceOrder) error {
	return writeAtomic(path, unifiedOrderColumns, func(w *csv.Writer) error {
		for _, o := range orders {
			row := []string{
				o.OrderID,
				o.EquipmentType,
				o.Model,
				o.Brand,
				o.OpenedAt.Format(dateLayout),
				formatDate(o.ClosedAt),
				o.Supplier,
				o.Cost.StringFixed(2),
				o.EquipmentIdentifier,
				string(o.Source),
				strconv.FormatBool(o.DateFlagged),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteConsolidatedAssets writes the final consolidated table. Callers pass
// assets already sorted by priority rank.
func WriteConsolidatedAssets(path string, assets []models.ConsolidatedAsset) error {
	return writeAtomic(path, consolidatedColumns, func(w *csv.Writer) error {
		for _, a := range assets {
			value := ""
			if a.Value.Valid {
				value = a.Value.Decimal.StringFixed(2)
			}
			row := []string{
				a.Identifier,
				a.EquipmentType,
				a.Model,
				a.Brand,
				a.Location,
				formatDate(a.AcquiredAt),
				value,
				strconv.Itoa(a.CriticalityWeight),
				strconv.Itoa(a.OrderCount),
				strconv.Itoa(a.OpenOrderCount),
				a.TotalExternalCost.StringFixed(2),
				formatDate(a.LastServiceAt),
				strconv.FormatFloat(a.PriorityScore, 'f', 4, 64),
				strconv.Itoa(a.PriorityRank),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeAtomic writes a table to a temporary file in the destination
// directory and renames it into place, so a failed run never leaves a
// truncated output behind.
func writeAtomic(path string, header []string, body func(*csv.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary output file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := csv.NewWriter(tmp)
	w.Comma = fieldSeparator
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := body(w); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
