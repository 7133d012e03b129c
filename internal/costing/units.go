// Package costing implements the recipe-costing and quantity-aggregation
// engine: unit conversion, ingredient costing, the preparation cost resolver,
// the dish aggregator and the production planner. Everything here is a pure
// function over an in-memory Snapshot; fetching and persistence stay in the
// repository and service layers.
package costing

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Dimension classifies a unit: weight (base g), volume (base ml) or count.
type Dimension string

const (
	DimWeight Dimension = "weight"
	DimVolume Dimension = "volume"
	DimCount  Dimension = "count"
)

// unitFactors maps a normalized unit to its factor relative to the dimension
// base (grams for weight, millilitres for volume, 1 for count units).
var unitFactors = map[string]float64{
	"kg":     1000,
	"g":      1,
	"mg":     0.001,
	"l":      1000,
	"litre":  1000,
	"litres": 1000,
	"ml":     1,
	"cl":     10,
	"pièce":  1,
	"piece":  1,
	"botte":  1,
}

var unitDimensions = map[string]Dimension{
	"kg":     DimWeight,
	"g":      DimWeight,
	"mg":     DimWeight,
	"l":      DimVolume,
	"litre":  DimVolume,
	"litres": DimVolume,
	"ml":     DimVolume,
	"cl":     DimVolume,
	"pièce":  DimCount,
	"piece":  DimCount,
	"botte":  DimCount,
}

// EquivalenceProvider exposes an item's ad hoc unit equivalences (e.g. one
// botte of parsley = 250 g). Looked up before the static factor table.
type EquivalenceProvider interface {
	UnitEquivalences() map[string]float64
}

func normalizeUnit(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// factorOf resolves a unit to its base factor: item equivalences first, then
// the static table. ok is false when the unit is unknown to both.
func factorOf(unit string, item EquivalenceProvider) (float64, bool) {
	if item != nil {
		if eq := item.UnitEquivalences(); eq != nil {
			for k, v := range eq {
				if normalizeUnit(k) == unit && v > 0 {
					return v, true
				}
			}
		}
	}
	f, ok := unitFactors[unit]
	return f, ok
}

// Convert returns the multiplier that converts a quantity in `from` into the
// equivalent quantity in `to`. Same-dimension pairs convert exactly; a
// weight↔volume pair falls back to the density assumption 1 g ≈ 1 ml (an
// approximation, acceptable for restaurant-scale costing). An unknown unit on
// either side yields the identity factor 1 with a logged warning — a missing
// unit must degrade the one number it touches, never abort a whole costing run.
func Convert(from, to string, item EquivalenceProvider) float64 {
	from = normalizeUnit(from)
	to = normalizeUnit(to)
	if from == to {
		return 1
	}

	fromFactor, fromOK := factorOf(from, item)
	toFactor, toOK := factorOf(to, item)
	if !fromOK || !toOK {
		log.Warn().Str("from", from).Str("to", to).
			Msg("conversion d'unité inconnue, facteur 1 appliqué")
		return 1
	}

	if d1, ok1 := unitDimensions[from]; ok1 {
		if d2, ok2 := unitDimensions[to]; ok2 && d1 != d2 {
			log.Warn().Str("from", from).Str("to", to).
				Msg("conversion poids/volume approximée (1 g ≈ 1 ml)")
		}
	}
	return fromFactor / toFactor
}

// DimensionOf returns the physical dimension of a unit; count for unknown
// units, which keeps unknown-unit quantities additive as-is.
func DimensionOf(unit string) Dimension {
	if d, ok := unitDimensions[normalizeUnit(unit)]; ok {
		return d
	}
	return DimCount
}

// BaseUnitFor maps a unit to the base unit of its dimension: weight→g,
// volume→ml, count→pièce.
func BaseUnitFor(unit string) string {
	switch DimensionOf(unit) {
	case DimWeight:
		return "g"
	case DimVolume:
		return "ml"
	default:
		return "pièce"
	}
}
