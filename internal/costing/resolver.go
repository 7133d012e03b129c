package costing

import (
	"math"
	"sort"

	"brigade/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ResolvePreparationCosts computes a cost-per-production-unit for every
// preparation in the snapshot, folding direct ingredient costs and
// already-resolved child-preparation costs together in dependency order.
// A cyclic dependency is logged and broken: the nodes involved fall back to
// whatever resolves without the back-edge, or 0 as a last resort. The result
// map is recomputed fully on every call — preparation graphs are
// restaurant-scale, tens to low hundreds of nodes.
func ResolvePreparationCosts(s *Snapshot) map[uuid.UUID]float64 {
	ids := make([]uuid.UUID, 0, len(s.Preparations))
	for id := range s.Preparations {
		ids = append(ids, id)
	}
	// Map iteration order is random; sort for a deterministic walk.
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
		name := ""
		if p := s.Preparations[id]; p != nil {
			name = p.Name
		}
		log.Error().Str("preparation_id", id.String()).Str("name", name).
			Msg("dépendance circulaire détectée entre préparations, coût partiel appliqué")
	})

	resolved := make(map[uuid.UUID]float64, len(order))
	for _, id := range order {
		prep := s.Preparations[id]
		if prep == nil {
			continue
		}

		ingredientCost := 0.0
		for _, l := range s.IngredientLinksOf(model.KindPreparation, id) {
			ingredientCost += IngredientCost(s.Ingredients[l.IngredientID], l.Quantity, l.UnitUse)
		}

		childCost := 0.0
		for _, l := range s.PreparationLinksOf(model.KindPreparation, id) {
			childCost += preparationUseCost(s, l, resolved)
		}

		denom := prep.ProductionQuantity
		if denom <= 0 {
			denom = 1
		}
		cost := (ingredientCost + childCost) / denom
		if math.IsNaN(cost) || math.IsInf(cost, 0) {
			cost = 0
		}
		resolved[id] = cost
	}
	return resolved
}

// PreparationLinkCost prices a single parent→child link against the resolved
// cost map. Exposed for per-line cost breakdowns.
func PreparationLinkCost(s *Snapshot, l model.RecipePreparation, resolved map[uuid.UUID]float64) float64 {
	return preparationUseCost(s, l, resolved)
}

// preparationUseCost prices one parent→child link: the child's resolved
// cost-per-production-unit divided by the production-unit→usage-unit factor
// gives a per-use-unit cost, multiplied by the link quantity. Children not
// yet resolved (broken cycle, dangling id) contribute 0.
func preparationUseCost(s *Snapshot, l model.RecipePreparation, resolved map[uuid.UUID]float64) float64 {
	child := s.Preparations[l.ChildID]
	if child == nil {
		return 0
	}
	perProductionUnit, ok := resolved[l.ChildID]
	if !ok {
		return 0
	}
	factor := Convert(child.ProductionUnit, l.UnitUse, child)
	if factor == 0 {
		return 0
	}
	cost := l.Quantity * perProductionUnit / factor
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0
	}
	return cost
}
