package service_test

import (
	"context"
	"testing"

	"brigade/internal/dto"
	"brigade/internal/model"
	"brigade/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlan_ComputesShortfalls(t *testing.T) {
	ingredients := newStubIngredientRepo()
	dishes := newStubDishRepo()
	graph := newStubGraphRepo(ingredients, dishes)
	svc := service.NewPlanService(graph)

	beurre := ingredients.add(&model.Ingredient{
		Name: "Beurre doux", PurchaseUnit: "kg", PurchaseWeightGrams: 1000, PurchasePrice: 8,
		BaseUnit: "g", StockQuantity: 2, YieldPercentage: 100,
	})
	farine := ingredients.add(&model.Ingredient{
		Name: "Farine T55", PurchaseUnit: "kg", PurchaseWeightGrams: 1000, PurchasePrice: 1.2,
		BaseUnit: "g", StockQuantity: 1, YieldPercentage: 100,
	})
	dish := dishes.add(&model.Dish{
		RecipeCore: model.RecipeCore{Name: "Brioche", Portions: 1, ProductionQuantity: 1, ProductionUnit: "pièce"},
		Price:      6, Status: "Actif",
	})
	graph.linkIngredient(model.KindDish, dish.ID, beurre.ID, 150, "g")
	graph.linkIngredient(model.KindDish, dish.ID, farine.ID, 300, "g")

	resp, err := svc.BuildPlan(context.Background(), dto.BuildPlanRequest{
		Forecast: []dto.PlanForecastLine{{DishID: dish.ID.String(), Quantity: 10}},
	})
	require.NoError(t, err)
	require.Empty(t, resp.Error)
	require.Len(t, resp.Ingredients, 2)

	// Lignes triées par nom : beurre puis farine, ré-exprimées en kg.
	b := resp.Ingredients[0]
	assert.Equal(t, "Beurre doux", b.Name)
	assert.InDelta(t, 1.5, b.Quantity, 1e-9) // 10 × 150 g
	assert.Equal(t, "kg", b.Unit)
	assert.InDelta(t, 2.0, b.InStock, 1e-9)
	assert.Zero(t, b.Shortfall)

	f := resp.Ingredients[1]
	assert.Equal(t, "Farine T55", f.Name)
	assert.InDelta(t, 3.0, f.Quantity, 1e-9)
	assert.InDelta(t, 1.0, f.InStock, 1e-9)
	assert.InDelta(t, 2.0, f.Shortfall, 1e-9)

	assert.Greater(t, resp.TotalIngredientsCost, 0.0)
}

func TestBuildPlan_InvalidDishID(t *testing.T) {
	ingredients := newStubIngredientRepo()
	dishes := newStubDishRepo()
	graph := newStubGraphRepo(ingredients, dishes)
	svc := service.NewPlanService(graph)

	_, err := svc.BuildPlan(context.Background(), dto.BuildPlanRequest{
		Forecast: []dto.PlanForecastLine{{DishID: "pas-un-uuid", Quantity: 3}},
	})
	require.Error(t, err)
}

func TestBuildPlan_UnknownDishYieldsEmptyPlan(t *testing.T) {
	ingredients := newStubIngredientRepo()
	dishes := newStubDishRepo()
	graph := newStubGraphRepo(ingredients, dishes)
	svc := service.NewPlanService(graph)

	resp, err := svc.BuildPlan(context.Background(), dto.BuildPlanRequest{
		Forecast: []dto.PlanForecastLine{{DishID: uuid.NewString(), Quantity: 5}},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Ingredients)
	assert.Empty(t, resp.Preparations)
}
