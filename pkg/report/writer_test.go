package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vitalpark/fleet-engine/pkg/models"
)

func testOrder() models.ServiceOrder {
	opened, _ := time.Parse("2006-01-02", "2022-01-05")
	closed, _ := time.Parse("2006-01-02", "2022-01-20")
	return models.ServiceOrder{
		OrderID:             "1001",
		EquipmentType:       "Monitor",
		Model:               "X200",
		Brand:               "Acme",
		OpenedAt:            opened,
		ClosedAt:            &closed,
		Supplier:            "Acme Serviços",
		Cost:                decimal.RequireFromString("1250.5"),
		EquipmentIdentifier: "A1",
		Source:              models.OrderSourceLegacy,
	}
}

func TestWriteUnifiedOrders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "unified_orders.csv")

	if err := WriteUnifiedOrders(path, []models.ServiceOrder{testOrder()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "order_id;equipment_type;model;brand;opened_at;closed_at;supplier;cost;equipment_identifier;source;date_flagged" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "1250.50") {
		t.Errorf("cost should be fixed to 2 decimal places: %s", lines[1])
	}
	if !strings.Contains(lines[1], "2022-01-20") {
		t.Errorf("dates should be ISO formatted: %s", lines[1])
	}
}

func TestWriteConsolidatedAssets_NullableFieldsBlank(t *testing.T) {
	path := filepath.Join(t.TempDir(), "consolidated.csv")
	asset := models.ConsolidatedAsset{
		InventoryAsset: models.InventoryAsset{
			Identifier:    "A2",
			EquipmentType: "Bomba",
		},
		CriticalityWeight: 1,
		TotalExternalCost: decimal.Zero,
		PriorityScore:     42.5,
		PriorityRank:      1,
	}

	if err := WriteConsolidatedAssets(path, []models.ConsolidatedAsset{asset}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	row := strings.Split(lines[1], ";")
	if row[5] != "" || row[6] != "" || row[11] != "" {
		t.Errorf("nil date and null value must serialize blank, got %v", row)
	}
	if row[10] != "0.00" {
		t.Errorf("zero cost serializes as 0.00, got %q", row[10])
	}
}

func TestWriteAtomic_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unified.csv")

	if err := WriteUnifiedOrders(path, []models.ServiceOrder{testOrder()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "unified.csv" {
		t.Errorf("expected only the final file, found %v", entries)
	}
}

func TestWriteUnifiedOrders_Deterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")
	orders := []models.ServiceOrder{testOrder()}

	if err := WriteUnifiedOrders(first, orders); err != nil {
		t.Fatal(err)
	}
	if err := WriteUnifiedOrders(second, orders); err != nil {
		t.Fatal(err)
	}

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if string(a) != string(b) {
		t.Error("identical inputs must produce byte-identical output")
	}
}
