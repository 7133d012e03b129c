package costing

import (
	"sort"

	"brigade/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// seed is a graph-walk entry point: a dish or preparation needed mult times.
type seed struct {
	kind model.ParentKind
	id   uuid.UUID
	mult float64
}

// expandUsage walks the composition graph forward from the seeds and
// accumulates physical quantities: per-ingredient totals in the ingredient's
// base unit (g/ml/pièce) and per-preparation totals in the base unit of their
// production unit, the unit the plan displays them in — a preparation
// produced in kg but referenced by the piece still totals up in grams.
// Quantities are ALWAYS normalized to a base unit before summing —
// mixing unit systems in a running sum is the one mistake this engine must
// never make. Shared sub-preparations accumulate across seeds: preparations
// are processed parents-before-children so every multiplier contribution
// lands before a node is expanded, and cycles are broken by the topological
// order instead of looping.
func expandUsage(s *Snapshot, seeds []seed) (map[uuid.UUID]float64, map[uuid.UUID]float64) {
	ingredientTotals := make(map[uuid.UUID]float64)
	preparationTotals := make(map[uuid.UUID]float64)
	multipliers := make(map[uuid.UUID]float64)

	addIngredient := func(l model.RecipeIngredient, mult float64) {
		ing := s.Ingredients[l.IngredientID]
		base := ingredientBaseUnit(ing, l.UnitUse)
		ingredientTotals[l.IngredientID] += l.Quantity * mult * Convert(l.UnitUse, base, ing)
	}

	addPreparation := func(l model.RecipePreparation, mult float64) {
		child := s.Preparations[l.ChildID]
		if child == nil {
			return
		}
		base := BaseUnitFor(child.ProductionUnit)
		preparationTotals[l.ChildID] += l.Quantity * mult * Convert(l.UnitUse, base, child)

		// Batches of the child needed: usage converted into the child's own
		// production unit, divided by one batch's yield.
		prodQty := child.ProductionQuantity
		if prodQty <= 0 {
			prodQty = 1
		}
		multipliers[l.ChildID] += l.Quantity * mult * Convert(l.UnitUse, child.ProductionUnit, child) / prodQty
	}

	// Direct links of the seeds (dishes, mostly).
	for _, sd := range seeds {
		if sd.mult <= 0 {
			continue
		}
		for _, l := range s.IngredientLinksOf(sd.kind, sd.id) {
			addIngredient(l, sd.mult)
		}
		for _, l := range s.PreparationLinksOf(sd.kind, sd.id) {
			addPreparation(l, sd.mult)
		}
	}

	// Preparations parents-first: reverse of the children-first resolver order.
	ids := make([]uuid.UUID, 0, len(s.Preparations))
	for id := range s.Preparations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	children := func(id uuid.UUID) []uuid.UUID {
		links := s.PreparationLinksOf(model.KindPreparation, id)
		out := make([]uuid.UUID, 0, len(links))
		for _, l := range links {
			if _, ok := s.Preparations[l.ChildID]; ok {
				out = append(out, l.ChildID)
			}
		}
		return out
	}
	order := TopoOrder(ids, children, func(id uuid.UUID) {
		log.Warn().Str("preparation_id", id.String()).
			Msg("cycle de préparations ignoré pendant l'agrégation des besoins")
	})

	processed := make(map[uuid.UUID]bool, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		processed[id] = true
		m := multipliers[id]
		if m <= 0 {
			continue
		}
		for _, l := range s.IngredientLinksOf(model.KindPreparation, id) {
			addIngredient(l, m)
		}
		for _, l := range s.PreparationLinksOf(model.KindPreparation, id) {
			if processed[l.ChildID] {
				// Back-edge of a broken cycle: its contribution is dropped.
				log.Warn().Str("parent_id", id.String()).Str("child_id", l.ChildID.String()).
					Msg("contribution d'une arête cyclique ignorée")
				continue
			}
			addPreparation(l, m)
		}
	}

	return ingredientTotals, preparationTotals
}

// ExpandIngredientUsage returns the full raw-ingredient composition of one
// dish or preparation scaled by mult, as base-unit quantities per ingredient.
// Cost-agnostic: this is the walk the stock-deduction transaction relies on.
func ExpandIngredientUsage(s *Snapshot, kind model.ParentKind, id uuid.UUID, mult float64) map[uuid.UUID]float64 {
	totals, _ := expandUsage(s, []seed{{kind: kind, id: id, mult: mult}})
	return totals
}

// ingredientBaseUnit prefers the ingredient's declared base unit, falling
// back to the dimension of the unit it was requested in.
func ingredientBaseUnit(ing *model.Ingredient, unitUse string) string {
	if ing != nil && ing.BaseUnit != "" {
		return ing.BaseUnit
	}
	return BaseUnitFor(unitUse)
}
