package identity

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a raw identifier so the same physical asset
// matches regardless of source formatting: whitespace and punctuation are
// stripped, letters are upper-cased, and leading zeros are removed.
// Returns "" when no identifier content remains.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	s := b.String()
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" && s != "" {
		// An identifier of all zeros stays "0" rather than vanishing.
		return "0"
	}
	return trimmed
}

// Resolve walks an ordered list of raw identifier fields and returns the
// first that normalizes to a non-empty canonical identifier. The field
// order encodes the per-source precedence rules; callers pass fields in
// precedence order rather than branching ad hoc.
func Resolve(fields ...string) string {
	for _, f := range fields {
		if id := Normalize(f); id != "" {
			return id
		}
	}
	return ""
}

// ResolveLegacy derives the canonical identifier of a legacy service order:
// TAG takes precedence, Patrimônio is the fallback.
func ResolveLegacy(tag, patrimonio string) string {
	return Resolve(tag, patrimonio)
}

// ResolveRecent derives the canonical identifier from the recent source's
// combined "Identificador (Patrimônio, ID, TAG)" field, whose value may
// list several sub-identifiers separated by commas. The first component
// that yields a canonical identifier wins.
func ResolveRecent(combined string) string {
	return Resolve(strings.Split(combined, ",")...)
}

// ResolveInventory derives the canonical identifier of an inventory row.
// The inventory's Identificador column defines the universe of valid
// identifiers; it only needs normalization.
func ResolveInventory(identificador string) string {
	return Normalize(identificador)
}
