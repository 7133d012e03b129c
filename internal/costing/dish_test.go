package costing

import (
	"math"
	"testing"

	"brigade/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAggregateDishWithPreparation(t *testing.T) {
	tomatoes := model.Ingredient{
		ID: uuid.New(), Name: "Tomates",
		PurchasePrice: 300, PurchaseUnit: "kg", PurchaseWeightGrams: 1000,
		YieldPercentage: 100, BaseUnit: "g",
	}
	sauce := prep("Sauce tomate", "kg", 2)
	dish := model.Dish{
		RecipeCore: model.RecipeCore{ID: uuid.New(), Name: "Pâtes sauce tomate", Portions: 1},
		Price:      1200, TVARate: 10,
	}

	s := NewSnapshot(
		[]model.Ingredient{tomatoes},
		[]model.Preparation{sauce},
		[]model.RecipeIngredient{{
			ParentKind: model.KindPreparation, ParentID: sauce.ID,
			IngredientID: tomatoes.ID, Quantity: 1, UnitUse: "kg",
		}},
		[]model.RecipePreparation{{
			ParentKind: model.KindDish, ParentID: dish.ID,
			ChildID: sauce.ID, Quantity: 200, UnitUse: "g",
		}},
	)

	resolved := ResolvePreparationCosts(s)
	got := AggregateDish(s, &dish, resolved)

	// 200 g of a 150-per-kg sauce contributes 30.
	assert.InDelta(t, 30, got.TotalCost, 1e-9)
	assert.InDelta(t, 30, got.CostPerPortion, 1e-9)
	assert.InDelta(t, 1200/1.1, got.PriceHT, 1e-9)
	assert.InDelta(t, got.PriceHT-30, got.GrossMargin, 1e-9)
	assert.InDelta(t, 30/got.PriceHT*100, got.FoodCostPct, 1e-9)
	assert.InDelta(t, got.PriceHT/30, got.Multiplier, 1e-9)
}

func TestAggregateDishDefaultsTVAWhenMissing(t *testing.T) {
	dish := model.Dish{
		RecipeCore: model.RecipeCore{ID: uuid.New(), Portions: 4},
		Price:      2200, TVARate: 0,
	}
	s := NewSnapshot(nil, nil, nil, nil)
	got := AggregateDish(s, &dish, nil)
	assert.InDelta(t, 2000, got.PriceHT, 1e-9) // back out the default 10%
}

func TestAggregateDishNeverLeaksNaNOrInf(t *testing.T) {
	s := NewSnapshot(nil, nil, nil, nil)
	dishes := []model.Dish{
		{},
		{RecipeCore: model.RecipeCore{ID: uuid.New(), Portions: 0}, Price: 0, TVARate: 0},
		{RecipeCore: model.RecipeCore{ID: uuid.New(), Portions: -3}, Price: -500, TVARate: -10},
		{RecipeCore: model.RecipeCore{ID: uuid.New(), Portions: 2}, Price: 990, TVARate: 9},
	}
	for _, d := range dishes {
		got := AggregateDish(s, &d, nil)
		for name, v := range map[string]float64{
			"totalCost":      got.TotalCost,
			"costPerPortion": got.CostPerPortion,
			"priceHT":        got.PriceHT,
			"grossMargin":    got.GrossMargin,
			"grossMarginPct": got.GrossMarginPct,
			"foodCostPct":    got.FoodCostPct,
			"multiplier":     got.Multiplier,
		} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s is not finite", name)
		}
	}
}

func TestAggregateNilDish(t *testing.T) {
	s := NewSnapshot(nil, nil, nil, nil)
	got := AggregateDish(s, nil, nil)
	assert.Zero(t, got.TotalCost)
}
