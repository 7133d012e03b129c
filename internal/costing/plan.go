package costing

import (
	"fmt"
	"sort"

	"brigade/internal/model"

	"github.com/google/uuid"
)

// Requirement is one aggregated line of a production plan: a total quantity
// of an ingredient or preparation, re-expressed in kg/L when large.
type Requirement struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Quantity float64   `json:"quantity"`
	Unit     string    `json:"unit"`
}

// PlanResult aggregates everything a forecast requires. Callers must check
// Error: a malformed forecast degrades to a structured error result, never a
// panic escaping to the HTTP layer.
type PlanResult struct {
	RequiredPreparations []Requirement `json:"requiredPreparations"`
	RequiredIngredients  []Requirement `json:"requiredIngredients"`
	TotalIngredientsCost float64       `json:"totalIngredientsCost"`
	Error                string        `json:"error,omitempty"`
}

// BuildPlan scales every forecasted dish through the dependency graph and
// sums raw-ingredient and preparation requirements across all of them.
func BuildPlan(forecast map[uuid.UUID]float64, s *Snapshot) (result PlanResult) {
	defer func() {
		if r := recover(); r != nil {
			result = PlanResult{Error: fmt.Sprintf("échec du calcul du plan de production: %v", r)}
		}
	}()

	seeds := make([]seed, 0, len(forecast))
	for dishID, sold := range forecast {
		if sold <= 0 {
			continue
		}
		seeds = append(seeds, seed{kind: model.KindDish, id: dishID, mult: sold})
	}

	ingredientTotals, preparationTotals := expandUsage(s, seeds)

	result.RequiredIngredients = make([]Requirement, 0, len(ingredientTotals))
	totalCost := 0.0
	for id, qty := range ingredientTotals {
		ing := s.Ingredients[id]
		name := id.String()
		base := "g"
		if ing != nil {
			name = ing.Name
			base = ingredientBaseUnit(ing, base)
		}
		displayQty, displayUnit := Humanize(qty, base)
		totalCost += IngredientCost(ing, displayQty, displayUnit)
		result.RequiredIngredients = append(result.RequiredIngredients, Requirement{
			ID: id, Name: name, Quantity: displayQty, Unit: displayUnit,
		})
	}
	result.TotalIngredientsCost = sanitize(totalCost)

	result.RequiredPreparations = make([]Requirement, 0, len(preparationTotals))
	for id, qty := range preparationTotals {
		name := id.String()
		base := "g"
		if p := s.Preparations[id]; p != nil {
			name = p.Name
			base = BaseUnitFor(p.ProductionUnit)
		}
		displayQty, displayUnit := Humanize(qty, base)
		result.RequiredPreparations = append(result.RequiredPreparations, Requirement{
			ID: id, Name: name, Quantity: displayQty, Unit: displayUnit,
		})
	}

	sort.Slice(result.RequiredIngredients, func(i, j int) bool {
		return result.RequiredIngredients[i].Name < result.RequiredIngredients[j].Name
	})
	sort.Slice(result.RequiredPreparations, func(i, j int) bool {
		return result.RequiredPreparations[i].Name < result.RequiredPreparations[j].Name
	})
	return result
}

// Humanize re-expresses a base-unit quantity in the next unit up once it
// crosses 1000: grams become kilograms, millilitres become litres. Count
// units stay as they are.
func Humanize(qty float64, baseUnit string) (float64, string) {
	if qty < 1000 {
		return qty, baseUnit
	}
	switch normalizeUnit(baseUnit) {
	case "g":
		return qty / 1000, "kg"
	case "ml":
		return qty / 1000, "l"
	default:
		return qty, baseUnit
	}
}
