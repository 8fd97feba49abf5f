package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/vitalpark/fleet-engine/pkg/apperrors"
)

// Source tags used in errors and run-summary counters.
const (
	SourceLegacyOrders = "legacy_orders"
	SourceRecentOrders = "recent_orders"
	SourceCriticality  = "criticality"
	SourceInventory    = "inventory"
)

// fieldSeparator is shared by all four spreadsheet exports.
const fieldSeparator = ';'

// leadingRows is the number of non-data rows each source carries before its
// header. Format-coupled: kept as data so a future export-format change is
// a constant edit, not new parsing logic.
var leadingRows = map[string]int{
	SourceLegacyOrders: 0,
	SourceRecentOrders: 0,
	SourceCriticality:  5,
	SourceInventory:    0,
}

// Table is a parsed tabular source: a header-indexed view over raw rows.
type Table struct {
	Source  string
	columns map[string]int
	Rows    [][]string
}

// ParseTable reads a semicolon-delimited source, skips the source's leading
// non-data rows, and verifies that every required column is present.
// A missing column yields a *apperrors.SchemaError.
func ParseTable(source string, r io.Reader, required []string) (*Table, error) {
	reader := csv.NewReader(newBOMReader(r))
	reader.Comma = fieldSeparator
	// Leading junk rows and ragged data rows are handled here, not by the
	// csv package's column-count enforcement.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for i := 0; i < leadingRows[source]; i++ {
		if _, err := reader.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("source %q: expected %d leading rows before header, got EOF", source, leadingRows[source])
			}
			return nil, fmt.Errorf("source %q: failed to skip leading row %d: %w", source, i+1, err)
		}
	}

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("source %q: empty file, no header row", source)
		}
		return nil, fmt.Errorf("source %q: failed to read header row: %w", source, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[trimCell(name)] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &apperrors.SchemaError{Source: source, Missing: missing}
	}

	t := &Table{Source: source, columns: columns}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("source %q: failed to read row %d: %w", source, len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Get returns the trimmed value of the named column in the given row, or ""
// when the row is too short.
func (t *Table) Get(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return trimCell(row[idx])
}

// SourceReport accumulates row-level outcomes while reading one source.
// Row failures are counted, never fatal.
type SourceReport struct {
	Source       string
	RowCount     int
	Malformed    int
	FlaggedDates int
	Errors       []*apperrors.RecordError
}

func (r *SourceReport) recordError(e *apperrors.RecordError) {
	r.Malformed++
	r.Errors = append(r.Errors, e)
}

// newBOMReader strips a leading UTF-8 byte-order mark if present.
func newBOMReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}

func trimCell(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	// Cells may also carry a stray BOM when the export tool re-encodes.
	for end-start >= 3 && s[start] == 0xEF && s[start+1] == 0xBB && s[start+2] == 0xBF {
		start += 3
	}
	return s[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
