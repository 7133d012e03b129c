package costing

import (
	"math"

	"brigade/internal/model"

	"github.com/google/uuid"
)

// DishCost is the margin sheet of a single dish. Every field is guaranteed
// finite: zero-denominator cases resolve to 0, never NaN or Infinity.
type DishCost struct {
	DishID         uuid.UUID `json:"dishId"`
	TotalCost      float64   `json:"totalCost"`
	CostPerPortion float64   `json:"costPerPortion"`
	// PriceHT is the sale price with VAT backed out.
	PriceHT        float64 `json:"priceHT"`
	GrossMargin    float64 `json:"grossMargin"`
	GrossMarginPct float64 `json:"grossMarginPct"`
	FoodCostPct    float64 `json:"foodCostPct"`
	// Multiplier is the coefficient between ex-VAT price and cost per portion.
	Multiplier float64 `json:"multiplier"`
}

// AggregateDish sums a dish's direct ingredient costs and linked-preparation
// costs (priced off the resolver output) into total cost, cost-per-portion
// and the usual margin ratios.
func AggregateDish(s *Snapshot, dish *model.Dish, resolved map[uuid.UUID]float64) DishCost {
	out := DishCost{}
	if dish == nil {
		return out
	}
	out.DishID = dish.ID

	totalCost := 0.0
	for _, l := range s.IngredientLinksOf(model.KindDish, dish.ID) {
		totalCost += IngredientCost(s.Ingredients[l.IngredientID], l.Quantity, l.UnitUse)
	}
	for _, l := range s.PreparationLinksOf(model.KindDish, dish.ID) {
		totalCost += preparationUseCost(s, l, resolved)
	}
	out.TotalCost = sanitize(totalCost)

	portions := float64(dish.Portions)
	if portions < 1 {
		portions = 1
	}
	out.CostPerPortion = sanitize(out.TotalCost / portions)

	tva := dish.TVARate
	if tva <= 0 {
		tva = 10
	}
	if dish.Price > 0 {
		out.PriceHT = sanitize(dish.Price / (1 + tva/100))
	}

	if out.PriceHT > 0 {
		out.GrossMargin = sanitize(out.PriceHT - out.CostPerPortion)
		out.GrossMarginPct = sanitize(out.GrossMargin / out.PriceHT * 100)
		out.FoodCostPct = sanitize(out.CostPerPortion / out.PriceHT * 100)
	}
	if out.CostPerPortion > 0 && out.PriceHT > 0 {
		out.Multiplier = sanitize(out.PriceHT / out.CostPerPortion)
	}
	return out
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
