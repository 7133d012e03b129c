package costing

import (
	"testing"

	"brigade/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prep(name, prodUnit string, prodQty float64) model.Preparation {
	return model.Preparation{RecipeCore: model.RecipeCore{
		ID: uuid.New(), Name: name, ProductionQuantity: prodQty, ProductionUnit: prodUnit,
	}}
}

func TestResolveTomatoSauceScenario(t *testing.T) {
	tomatoes := model.Ingredient{
		ID: uuid.New(), Name: "Tomates",
		PurchasePrice: 300, PurchaseUnit: "kg", PurchaseWeightGrams: 1000,
		YieldPercentage: 100, BaseUnit: "g",
	}
	sauce := prep("Sauce tomate", "kg", 2)

	s := NewSnapshot(
		[]model.Ingredient{tomatoes},
		[]model.Preparation{sauce},
		[]model.RecipeIngredient{{
			ParentKind: model.KindPreparation, ParentID: sauce.ID,
			IngredientID: tomatoes.ID, Quantity: 1, UnitUse: "kg",
		}},
		nil,
	)

	resolved := ResolvePreparationCosts(s)
	// 1 kg of tomatoes = 300, batch yields 2 kg → 150 per kg.
	assert.InDelta(t, 150, resolved[sauce.ID], 1e-9)
}

func TestResolveNestedPreparations(t *testing.T) {
	tomatoes := model.Ingredient{
		ID: uuid.New(), Name: "Tomates",
		PurchasePrice: 300, PurchaseUnit: "kg", PurchaseWeightGrams: 1000,
		YieldPercentage: 100, BaseUnit: "g",
	}
	base := prep("Base tomate", "kg", 2)   // 150 per kg
	ragu := prep("Ragoût", "kg", 1)        // uses 500 g of base → 75 per batch

	s := NewSnapshot(
		[]model.Ingredient{tomatoes},
		[]model.Preparation{base, ragu},
		[]model.RecipeIngredient{{
			ParentKind: model.KindPreparation, ParentID: base.ID,
			IngredientID: tomatoes.ID, Quantity: 1, UnitUse: "kg",
		}},
		[]model.RecipePreparation{{
			ParentKind: model.KindPreparation, ParentID: ragu.ID,
			ChildID: base.ID, Quantity: 500, UnitUse: "g",
		}},
	)

	resolved := ResolvePreparationCosts(s)
	assert.InDelta(t, 150, resolved[base.ID], 1e-9)
	// 500 g at 150/kg = 75, batch of 1 kg → 75 per kg.
	assert.InDelta(t, 75, resolved[ragu.ID], 1e-9)
}

func TestResolveDeterministic(t *testing.T) {
	a := prep("A", "kg", 1)
	b := prep("B", "kg", 2)
	c := prep("C", "l", 4)
	ing := model.Ingredient{
		ID: uuid.New(), Name: "Sel",
		PurchasePrice: 50, PurchaseUnit: "kg", PurchaseWeightGrams: 1000,
		YieldPercentage: 100, BaseUnit: "g",
	}
	links := []model.RecipeIngredient{
		{ParentKind: model.KindPreparation, ParentID: a.ID, IngredientID: ing.ID, Quantity: 100, UnitUse: "g"},
		{ParentKind: model.KindPreparation, ParentID: c.ID, IngredientID: ing.ID, Quantity: 2, UnitUse: "kg"},
	}
	prepLinks := []model.RecipePreparation{
		{ParentKind: model.KindPreparation, ParentID: a.ID, ChildID: b.ID, Quantity: 300, UnitUse: "g"},
		{ParentKind: model.KindPreparation, ParentID: b.ID, ChildID: c.ID, Quantity: 1, UnitUse: "l"},
	}

	s := NewSnapshot([]model.Ingredient{ing}, []model.Preparation{a, b, c}, links, prepLinks)
	first := ResolvePreparationCosts(s)
	for i := 0; i < 10; i++ {
		again := ResolvePreparationCosts(s)
		assert.Equal(t, first, again)
	}
}

func TestResolveCycleTerminatesWithFiniteCosts(t *testing.T) {
	a := prep("A", "kg", 1)
	b := prep("B", "kg", 1)
	prepLinks := []model.RecipePreparation{
		{ParentKind: model.KindPreparation, ParentID: a.ID, ChildID: b.ID, Quantity: 1, UnitUse: "kg"},
		{ParentKind: model.KindPreparation, ParentID: b.ID, ChildID: a.ID, Quantity: 1, UnitUse: "kg"},
	}
	s := NewSnapshot(nil, []model.Preparation{a, b}, nil, prepLinks)

	resolved := ResolvePreparationCosts(s)
	require.Len(t, resolved, 2)
	for id, cost := range resolved {
		assert.False(t, cost != cost, "NaN cost for %s", id)
		assert.GreaterOrEqual(t, cost, 0.0)
	}
}

func TestResolveZeroProductionQuantityDefaultsToOne(t *testing.T) {
	ing := model.Ingredient{
		ID: uuid.New(), Name: "Beurre",
		PurchasePrice: 1000, PurchaseUnit: "kg", PurchaseWeightGrams: 1000,
		YieldPercentage: 100, BaseUnit: "g",
	}
	p := prep("Beurre clarifié", "kg", 0)
	s := NewSnapshot([]model.Ingredient{ing}, []model.Preparation{p},
		[]model.RecipeIngredient{{
			ParentKind: model.KindPreparation, ParentID: p.ID,
			IngredientID: ing.ID, Quantity: 500, UnitUse: "g",
		}}, nil)

	resolved := ResolvePreparationCosts(s)
	assert.InDelta(t, 500, resolved[p.ID], 1e-9)
}

func TestTopoOrderChildrenBeforeParents(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	children := map[uuid.UUID][]uuid.UUID{a: {b}, b: {c}}
	order := TopoOrder([]uuid.UUID{a, b, c}, func(id uuid.UUID) []uuid.UUID { return children[id] }, nil)

	pos := map[uuid.UUID]int{}
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos[c], pos[b])
	assert.Less(t, pos[b], pos[a])
}

func TestTopoOrderReportsCycle(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	children := map[uuid.UUID][]uuid.UUID{a: {b}, b: {a}}
	var cycles []uuid.UUID
	order := TopoOrder([]uuid.UUID{a, b}, func(id uuid.UUID) []uuid.UUID { return children[id] },
		func(id uuid.UUID) { cycles = append(cycles, id) })

	assert.Len(t, order, 2)
	assert.NotEmpty(t, cycles)
}
