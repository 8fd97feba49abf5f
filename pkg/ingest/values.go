package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseCurrency parses a Brazilian-locale monetary amount such as
// "R$ 1.234,56": the currency marker and thousands dots are stripped and
// the decimal comma becomes a decimal point. A bare integer ("1500") parses
// as-is.
func ParseCurrency(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, "R$", ""))
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// dateLayouts are the date forms seen across the spreadsheet exports, tried
// in order.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
}

// ParseDate parses a date cell in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
