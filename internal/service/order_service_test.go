package service_test

import (
	"context"
	"sync"
	"testing"

	"brigade/internal/dto"
	"brigade/internal/model"
	"brigade/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildOrderSvc() (service.OrderService, *stubSaleRepo, *stubIngredientRepo, *stubDishRepo, *stubGraphRepo, *stubMovementRepo, *stubTableRepo) {
	ingredients := newStubIngredientRepo()
	dishes := newStubDishRepo()
	graph := newStubGraphRepo(ingredients, dishes)
	sales := newStubSaleRepo()
	movements := &stubMovementRepo{}
	tables := newStubTableRepo()

	svc := service.NewOrderService(sales, dishes, ingredients, movements, tables, graph, nil)
	return svc, sales, ingredients, dishes, graph, movements, tables
}

func TestProcessOrder_DeductsStockAndWritesLedger(t *testing.T) {
	svc, sales, ingredients, dishes, graph, movements, tables := buildOrderSvc()

	// Beurre : acheté au kg, stocké en kg, 2 kg en réserve.
	beurre := ingredients.add(&model.Ingredient{
		Name: "Beurre doux", PurchaseUnit: "kg", PurchaseWeightGrams: 1000,
		BaseUnit: "g", StockQuantity: 2, YieldPercentage: 100,
	})
	dish := dishes.add(&model.Dish{
		RecipeCore: model.RecipeCore{Name: "Tarte au beurre", Portions: 1, ProductionQuantity: 1, ProductionUnit: "pièce"},
		Price:      12, TVARate: 10, Status: "Actif",
	})
	graph.linkIngredient(model.KindDish, dish.ID, beurre.ID, 200, "g")
	table := tables.add(&model.DiningTable{Number: 4, Capacity: 2, Status: "Occupée"})

	resp, err := svc.ProcessOrder(context.Background(), uuid.New(), dto.ProcessOrderRequest{
		TableID: table.ID.String(),
		Items:   []dto.OrderItemRequest{{DishID: dish.ID.String(), Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TicketNumber)
	assert.Equal(t, "complétée", resp.Status)
	assert.Equal(t, "36", resp.Total.String()) // 12 × 3
	assert.Empty(t, resp.StockWarnings)

	// 3 × 200 g = 600 g = 0.6 kg déduit du stock en unités d'achat.
	assert.InDelta(t, 1.4, beurre.StockQuantity, 1e-9)

	require.Len(t, movements.movements, 1)
	mov := movements.movements[0]
	assert.Equal(t, "vente", mov.Type)
	assert.InDelta(t, -0.6, mov.Quantity, 1e-9)
	assert.InDelta(t, 2.0, mov.StockBefore, 1e-9)
	assert.InDelta(t, 1.4, mov.StockAfter, 1e-9)
	assert.Equal(t, "Vente #1", mov.Reason)
	require.NotNil(t, mov.ReferenceID)

	// La vente persiste et la table est libérée.
	stored, err := sales.FindByID(context.Background(), *mov.ReferenceID)
	require.NoError(t, err)
	assert.Equal(t, "complétée", stored.Status)
	assert.Equal(t, "Libre", table.Status)
}

func TestProcessOrder_NegativeStockPersistsWithWarning(t *testing.T) {
	svc, _, ingredients, dishes, graph, _, tables := buildOrderSvc()

	creme := ingredients.add(&model.Ingredient{
		Name: "Crème liquide", PurchaseUnit: "l", PurchaseWeightGrams: 1000,
		BaseUnit: "ml", StockQuantity: 0.1, YieldPercentage: 100,
	})
	dish := dishes.add(&model.Dish{
		RecipeCore: model.RecipeCore{Name: "Gratin", Portions: 1, ProductionQuantity: 1, ProductionUnit: "pièce"},
		Price:      15, Status: "Actif",
	})
	graph.linkIngredient(model.KindDish, dish.ID, creme.ID, 30, "cl")
	table := tables.add(&model.DiningTable{Number: 1, Capacity: 4, Status: "Occupée"})

	resp, err := svc.ProcessOrder(context.Background(), uuid.New(), dto.ProcessOrderRequest{
		TableID: table.ID.String(),
		Items:   []dto.OrderItemRequest{{DishID: dish.ID.String(), Quantity: 1}},
	})
	// La vente n'est jamais bloquée par un stock insuffisant.
	require.NoError(t, err)
	assert.Contains(t, resp.StockWarnings, "Crème liquide")
	assert.InDelta(t, -0.2, creme.StockQuantity, 1e-9) // 0.1 − 0.3 l
}

func TestProcessOrder_MissingIngredientAbortsSale(t *testing.T) {
	// The snapshot still references the ingredient, but the catalog repo no
	// longer serves it: the whole sale must abort.
	catalog := newStubIngredientRepo()
	snapshotOnly := newStubIngredientRepo()
	farine := snapshotOnly.add(&model.Ingredient{
		Name: "Farine", PurchaseUnit: "kg", BaseUnit: "g", StockQuantity: 5, YieldPercentage: 100,
	})
	dishes := newStubDishRepo()
	graph := newStubGraphRepo(snapshotOnly, dishes)
	sales := newStubSaleRepo()
	movements := &stubMovementRepo{}
	tables := newStubTableRepo()
	svc := service.NewOrderService(sales, dishes, catalog, movements, tables, graph, nil)

	dish := dishes.add(&model.Dish{
		RecipeCore: model.RecipeCore{Name: "Pain perdu", Portions: 1, ProductionQuantity: 1, ProductionUnit: "pièce"},
		Price:      8, Status: "Actif",
	})
	graph.linkIngredient(model.KindDish, dish.ID, farine.ID, 100, "g")
	table := tables.add(&model.DiningTable{Number: 2, Capacity: 2, Status: "Occupée"})

	_, err := svc.ProcessOrder(context.Background(), uuid.New(), dto.ProcessOrderRequest{
		TableID: table.ID.String(),
		Items:   []dto.OrderItemRequest{{DishID: dish.ID.String(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent du catalogue")
	assert.Empty(t, movements.movements)
}

func TestProcessOrder_InactiveDishRejected(t *testing.T) {
	svc, _, _, dishes, _, _, tables := buildOrderSvc()

	dish := dishes.add(&model.Dish{
		RecipeCore: model.RecipeCore{Name: "Plat retiré", Portions: 1, ProductionQuantity: 1, ProductionUnit: "pièce"},
		Price:      20, Status: "Inactif",
	})
	table := tables.add(&model.DiningTable{Number: 3, Capacity: 2, Status: "Occupée"})

	_, err := svc.ProcessOrder(context.Background(), uuid.New(), dto.ProcessOrderRequest{
		TableID: table.ID.String(),
		Items:   []dto.OrderItemRequest{{DishID: dish.ID.String(), Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactif")
}

func TestProcessOrder_ConcurrentSalesGetDistinctTicketNumbers(t *testing.T) {
	svc, _, ingredients, dishes, graph, _, tables := buildOrderSvc()

	beurre := ingredients.add(&model.Ingredient{
		Name: "Beurre doux", PurchaseUnit: "kg", PurchaseWeightGrams: 1000,
		BaseUnit: "g", StockQuantity: 100, YieldPercentage: 100,
	})
	dish := dishes.add(&model.Dish{
		RecipeCore: model.RecipeCore{Name: "Tarte au beurre", Portions: 1, ProductionQuantity: 1, ProductionUnit: "pièce"},
		Price:      12, Status: "Actif",
	})
	graph.linkIngredient(model.KindDish, dish.ID, beurre.ID, 200, "g")

	// Plusieurs caisses valident en même temps, chacune sur sa table.
	const registers = 8
	tableIDs := make([]uuid.UUID, registers)
	for i := range tableIDs {
		tableIDs[i] = tables.add(&model.DiningTable{Number: i + 1, Capacity: 2, Status: "Occupée"}).ID
	}

	tickets := make(chan int, registers)
	var wg sync.WaitGroup
	for i := 0; i < registers; i++ {
		wg.Add(1)
		go func(tableID uuid.UUID) {
			defer wg.Done()
			resp, err := svc.ProcessOrder(context.Background(), uuid.New(), dto.ProcessOrderRequest{
				TableID: tableID.String(),
				Items:   []dto.OrderItemRequest{{DishID: dish.ID.String(), Quantity: 1}},
			})
			if assert.NoError(t, err) {
				tickets <- resp.TicketNumber
			}
		}(tableIDs[i])
	}
	wg.Wait()
	close(tickets)

	seen := make(map[int]bool)
	for tn := range tickets {
		assert.False(t, seen[tn], "ticket n° %d délivré deux fois", tn)
		seen[tn] = true
	}
	assert.Len(t, seen, registers)
}

func TestVoidSale_RestoresStockWithInverseMovements(t *testing.T) {
	svc, sales, ingredients, dishes, graph, movements, tables := buildOrderSvc()

	boeuf := ingredients.add(&model.Ingredient{
		Name: "Filet de bœuf", PurchaseUnit: "kg", BaseUnit: "g", StockQuantity: 3, YieldPercentage: 92,
	})
	dish := dishes.add(&model.Dish{
		RecipeCore: model.RecipeCore{Name: "Tournedos", Portions: 1, ProductionQuantity: 1, ProductionUnit: "pièce"},
		Price:      28, Status: "Actif",
	})
	graph.linkIngredient(model.KindDish, dish.ID, boeuf.ID, 180, "g")
	table := tables.add(&model.DiningTable{Number: 5, Capacity: 2, Status: "Occupée"})

	resp, err := svc.ProcessOrder(context.Background(), uuid.New(), dto.ProcessOrderRequest{
		TableID: table.ID.String(),
		Items:   []dto.OrderItemRequest{{DishID: dish.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.64, boeuf.StockQuantity, 1e-9) // 3 − 0.36

	saleID := uuid.MustParse(resp.ID)
	require.NoError(t, svc.VoidSale(context.Background(), saleID, "erreur de saisie"))

	assert.InDelta(t, 3.0, boeuf.StockQuantity, 1e-9)
	stored, _ := sales.FindByID(context.Background(), saleID)
	assert.Equal(t, "annulée", stored.Status)

	// Le grand livre garde la sortie d'origine ET l'entrée inverse.
	var voidEntries int
	for _, m := range movements.movements {
		if m.Type == "annulation" {
			voidEntries++
			assert.InDelta(t, 0.36, m.Quantity, 1e-9)
			assert.Contains(t, m.Reason, "erreur de saisie")
		}
	}
	assert.Equal(t, 1, voidEntries)
	assert.Len(t, movements.movements, 2)

	// Une vente déjà annulée ne peut pas l'être deux fois.
	err = svc.VoidSale(context.Background(), saleID, "doublon")
	require.Error(t, err)
}
