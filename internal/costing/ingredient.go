package costing

import (
	"math"

	"brigade/internal/model"
)

// IngredientCost computes the monetary cost of using quantity×unit of an
// ingredient, net of yield loss. Missing purchase data (no price, no pack
// weight) resolves to 0 — costing must always produce a number, and an
// ingredient without cost data is not an error.
func IngredientCost(ing *model.Ingredient, quantity float64, unit string) float64 {
	if ing == nil || ing.PurchasePrice == 0 || ing.PurchaseWeightGrams == 0 {
		return 0
	}

	costPerBaseUnit := ing.PurchasePrice / ing.PurchaseWeightGrams

	// 100 g of raw carrot yields less than 100 g usable after peeling:
	// dividing by the yield fraction inflates the per-unit cost accordingly.
	yield := ing.YieldPercentage
	if yield <= 0 || yield > 100 {
		yield = 100
	}
	netCostPerBaseUnit := costPerBaseUnit / (yield / 100)

	// The base unit follows the purchase unit's dimension, not the usage unit:
	// PurchaseWeightGrams is grams for weight purchases and ml for volume ones.
	targetBase := BaseUnitFor(ing.PurchaseUnit)
	quantityInBase := quantity * Convert(unit, targetBase, ing)

	cost := quantityInBase * netCostPerBaseUnit
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0
	}
	return cost
}
