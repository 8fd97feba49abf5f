package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/vitalpark/fleet-engine/pkg/apperrors"
	"github.com/vitalpark/fleet-engine/pkg/models"
)

const legacyHeader = "O.S;Tipo;Modelo;Marca;Data Início SE;Data Conclusão SE;Fornecedor;Custo;TAG;Patrimônio"

func TestReadLegacyOrders(t *testing.T) {
	input := legacyHeader + "\n" +
		"1001;Monitor;X200;Acme;10/03/2021;15/03/2021;Acme Serviços;R$ 1.250,50;T001;P900\n" +
		"1002;Bomba;B1;Beta;01/06/2022;;Beta Tec;; ;p-77\n"

	orders, report, err := ReadLegacyOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if report.Malformed != 0 {
		t.Errorf("expected no malformed rows, got %d", report.Malformed)
	}

	first := orders[0]
	if first.OrderID != "1001" {
		t.Errorf("expected order id 1001, got %q", first.OrderID)
	}
	if first.Source != models.OrderSourceLegacy {
		t.Errorf("expected LEGACY source, got %q", first.Source)
	}
	if got := first.Cost.StringFixed(2); got != "1250.50" {
		t.Errorf("expected cost 1250.50, got %s", got)
	}
	if first.EquipmentIdentifier != "T001" {
		t.Errorf("TAG should win precedence, got %q", first.EquipmentIdentifier)
	}
	if first.ClosedAt == nil || first.ClosedAt.Format("2006-01-02") != "2021-03-15" {
		t.Errorf("unexpected closed date: %v", first.ClosedAt)
	}

	second := orders[1]
	if !second.Cost.IsZero() {
		t.Errorf("blank cost must coerce to zero, got %s", second.Cost)
	}
	if second.ClosedAt != nil {
		t.Error("blank closing date must stay nil")
	}
	if second.EquipmentIdentifier != "P77" {
		t.Errorf("blank TAG should fall back to Patrimônio, got %q", second.EquipmentIdentifier)
	}
}

func TestReadLegacyOrders_SkipsMalformedRows(t *testing.T) {
	input := legacyHeader + "\n" +
		"1001;Monitor;X200;Acme;10/03/2021;;Acme;abc;T001;\n" + // non-numeric cost
		"1002;Monitor;X200;Acme;not-a-date;;Acme;;T002;\n" + // bad opening date
		"1003;Monitor;X200;Acme;;;Acme;;T003;\n" + // missing opening date
		"1004;Monitor;X200;Acme;10/03/2021;;Acme;100,00;T004;\n"

	orders, report, err := ReadLegacyOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 surviving order, got %d", len(orders))
	}
	if report.Malformed != 3 {
		t.Errorf("expected 3 malformed rows, got %d", report.Malformed)
	}
	if report.RowCount != 4 {
		t.Errorf("expected 4 rows seen, got %d", report.RowCount)
	}
	if len(report.Errors) != 3 {
		t.Fatalf("expected 3 record errors, got %d", len(report.Errors))
	}
	if report.Errors[0].Field != "Custo" {
		t.Errorf("first record error should name Custo, got %q", report.Errors[0].Field)
	}
}

func TestReadLegacyOrders_FlagsInvertedDates(t *testing.T) {
	input := legacyHeader + "\n" +
		"1001;Monitor;X200;Acme;10/03/2021;01/03/2021;Acme;;T001;\n"

	orders, report, err := ReadLegacyOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("flagged order must be retained, got %d orders", len(orders))
	}
	if !orders[0].DateFlagged {
		t.Error("expected order to be date-flagged")
	}
	if report.FlaggedDates != 1 {
		t.Errorf("expected 1 flagged date, got %d", report.FlaggedDates)
	}
}

func TestReadLegacyOrders_MissingColumn(t *testing.T) {
	input := "O.S;Tipo;Modelo\n1;a;b\n"
	_, _, err := ReadLegacyOrders(strings.NewReader(input))

	var schemaErr *apperrors.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Source != SourceLegacyOrders {
		t.Errorf("expected source %q, got %q", SourceLegacyOrders, schemaErr.Source)
	}
	found := false
	for _, col := range schemaErr.Missing {
		if col == "Custo" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing columns should include Custo, got %v", schemaErr.Missing)
	}
}

func TestReadRecentOrders(t *testing.T) {
	input := "O.S;Tipo;Modelo;Marca;Abertura;Fechamento;\"Serviço;Assistência\";Custo;Identificador (Patrimônio, ID, TAG)\n" +
		"2001;Ventilador;V5;Gama;2024-02-01;2024-02-10;Gama Hospitalar;R$ 500,00;\"A1,P123\"\n" +
		"2002;Monitor;X200;Acme;05/04/2024;;Acme Serviços;;A2\n"

	orders, report, err := ReadRecentOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if report.Malformed != 0 {
		t.Errorf("expected no malformed rows, got %d", report.Malformed)
	}
	if orders[0].Source != models.OrderSourceRecent {
		t.Errorf("expected RECENT source, got %q", orders[0].Source)
	}
	if orders[0].Supplier != "Gama Hospitalar" {
		t.Errorf("supplier should come from the quoted combined column, got %q", orders[0].Supplier)
	}
	if orders[0].EquipmentIdentifier != "A1" {
		t.Errorf("first combined component should win, got %q", orders[0].EquipmentIdentifier)
	}
	if got := orders[0].Cost.StringFixed(2); got != "500.00" {
		t.Errorf("expected cost 500.00, got %s", got)
	}
	if orders[1].EquipmentIdentifier != "A2" {
		t.Errorf("single identifier should resolve directly, got %q", orders[1].EquipmentIdentifier)
	}
}

func TestReadRecentOrders_UnresolvableIdentifierRetained(t *testing.T) {
	input := "O.S;Tipo;Modelo;Marca;Abertura;Fechamento;\"Serviço;Assistência\";Custo;Identificador (Patrimônio, ID, TAG)\n" +
		"2001;Monitor;X200;Acme;05/04/2024;;Acme;;\n"

	orders, _, err := ReadRecentOrders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("order without identifier must be retained, got %d", len(orders))
	}
	if orders[0].EquipmentIdentifier != "" {
		t.Errorf("expected empty identifier, got %q", orders[0].EquipmentIdentifier)
	}
}
