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

func buildCatalogSvc() (service.CatalogService, *stubIngredientRepo, *stubMovementRepo) {
	ingredients := newStubIngredientRepo()
	movements := &stubMovementRepo{}
	svc := service.NewCatalogService(ingredients, movements, nil)
	return svc, ingredients, movements
}

func TestCreateIngredient_Defaults(t *testing.T) {
	svc, _, _ := buildCatalogSvc()

	resp, err := svc.CreateIngredient(context.Background(), dto.CreateIngredientRequest{
		Name:     "Persil plat",
		Category: "Herbes",
		// YieldPercentage et BaseUnit omis : défauts 100 % et "g"
		PurchasePrice: 1.5,
		PurchaseUnit:  "botte",
		Equivalences:  map[string]float64{"botte": 250},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, resp.YieldPercentage)
	assert.Equal(t, "g", resp.BaseUnit)
	assert.Equal(t, 250.0, resp.Equivalences["botte"])
}

func TestAdjustStock_AppendsLedgerEntry(t *testing.T) {
	svc, ingredients, movements := buildCatalogSvc()
	ing := ingredients.add(&model.Ingredient{
		Name: "Farine T55", PurchaseUnit: "kg", BaseUnit: "g",
		StockQuantity: 10, LowStockThreshold: 5, YieldPercentage: 100,
	})

	resp, err := svc.AdjustStock(context.Background(), ing.ID, dto.AdjustStockRequest{
		Quantity: -4.5,
		Reason:   "casse en réserve",
	})
	require.NoError(t, err)
	assert.InDelta(t, 5.5, resp.StockQuantity, 1e-9)

	require.Len(t, movements.movements, 1)
	mov := movements.movements[0]
	assert.Equal(t, "ajustement", mov.Type)
	assert.InDelta(t, -4.5, mov.Quantity, 1e-9)
	assert.InDelta(t, 10, mov.StockBefore, 1e-9)
	assert.InDelta(t, 5.5, mov.StockAfter, 1e-9)
	assert.Equal(t, "casse en réserve", mov.Reason)
}

func TestAdjustStock_NegativeResultAllowed(t *testing.T) {
	svc, ingredients, _ := buildCatalogSvc()
	ing := ingredients.add(&model.Ingredient{
		Name: "Sucre", PurchaseUnit: "kg", BaseUnit: "g", StockQuantity: 1, YieldPercentage: 100,
	})

	resp, err := svc.AdjustStock(context.Background(), ing.ID, dto.AdjustStockRequest{
		Quantity: -3,
		Reason:   "inventaire physique",
	})
	require.NoError(t, err)
	assert.InDelta(t, -2, resp.StockQuantity, 1e-9)
}

func TestAdjustStock_UnknownIngredient(t *testing.T) {
	svc, _, movements := buildCatalogSvc()

	_, err := svc.AdjustStock(context.Background(), uuid.New(), dto.AdjustStockRequest{
		Quantity: 1,
		Reason:   "réception fournisseur",
	})
	require.Error(t, err)
	assert.Empty(t, movements.movements)
}

func TestStockAlerts_FlagsLowStock(t *testing.T) {
	svc, ingredients, _ := buildCatalogSvc()
	ingredients.add(&model.Ingredient{
		Name: "Beurre", PurchaseUnit: "kg", BaseUnit: "g",
		StockQuantity: 0.5, LowStockThreshold: 1, YieldPercentage: 100,
	})
	ingredients.add(&model.Ingredient{
		Name: "Sel", PurchaseUnit: "kg", BaseUnit: "g",
		StockQuantity: 8, LowStockThreshold: 1, YieldPercentage: 100,
	})
	ingredients.add(&model.Ingredient{
		Name: "Sans seuil", PurchaseUnit: "kg", BaseUnit: "g",
		StockQuantity: 0, LowStockThreshold: 0, YieldPercentage: 100,
	})

	resp, err := svc.StockAlerts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Beurre", resp.Items[0].Name)
	assert.True(t, resp.Items[0].LowStock)
}
