package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoConsolidation = errors.New("no consolidation run available")
	ErrEmptyInventory  = errors.New("inventory source contains no assets")
)

// SchemaError reports a structural problem with an input source: one or more
// mandatory columns are absent. Schema errors are fatal and abort the run
// before any output is written.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source %q is missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}

// RecordError reports a single row that failed type coercion. The row is
// skipped and counted, not fatal.
type RecordError struct {
	Source string
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("source %q row %d: field %q value %q: %s", e.Source, e.Row, e.Field, e.Value, e.Reason)
}
