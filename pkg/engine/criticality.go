package engine

import (
	"strings"

	"github.com/vitalpark/fleet-engine/pkg/models"
)

// DefaultCriticalityWeight is the neutral weight used when no criticality
// entry matches an asset: the lowest operational criticality.
const DefaultCriticalityWeight = 1

type tripleKey struct {
	equipmentType string
	model         string
	supplier      string
}

type pairKey struct {
	equipmentType string
	model         string
}

// CriticalityLookup maps equipment type/model/supplier tuples to weights.
type CriticalityLookup struct {
	byTriple map[tripleKey]int
	byPair   map[pairKey]int
}

// BuildCriticalityLookup indexes criticality entries for lookup. Entries
// colliding on a key resolve first-match-wins in file order.
func BuildCriticalityLookup(entries []models.CriticalityEntry) *CriticalityLookup {
	l := &CriticalityLookup{
		byTriple: make(map[tripleKey]int, len(entries)),
		byPair:   make(map[pairKey]int, len(entries)),
	}
	for _, e := range entries {
		triple := tripleKey{
			equipmentType: normalizeField(e.EquipmentType),
			model:         normalizeField(e.Model),
			supplier:      normalizeField(e.Supplier),
		}
		if _, ok := l.byTriple[triple]; !ok {
			l.byTriple[triple] = e.Weight
		}
		pair := pairKey{equipmentType: triple.equipmentType, model: triple.model}
		if _, ok := l.byPair[pair]; !ok {
			l.byPair[pair] = e.Weight
		}
	}
	return l
}

// Lookup returns the weight for the given tuple. Matching is exact on
// normalized fields; when the full triple misses, the (type, model) pair is
// retried; when that misses too, the neutral default is returned with
// matched=false so the caller can count the asset as unweighted.
func (l *CriticalityLookup) Lookup(equipmentType, model, supplier string) (weight int, matched bool) {
	triple := tripleKey{
		equipmentType: normalizeField(equipmentType),
		model:         normalizeField(model),
		supplier:      normalizeField(supplier),
	}
	if w, ok := l.byTriple[triple]; ok {
		return w, true
	}
	if w, ok := l.byPair[pairKey{equipmentType: triple.equipmentType, model: triple.model}]; ok {
		return w, true
	}
	return DefaultCriticalityWeight, false
}

func normalizeField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
