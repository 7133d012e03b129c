package service_test

import (
	"context"
	"testing"

	"brigade/internal/dto"
	"brigade/internal/model"
	"brigade/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConcept_UnavailableWithoutModel(t *testing.T) {
	ingredients := newStubIngredientRepo()
	dishes := newStubDishRepo()
	graph := newStubGraphRepo(ingredients, dishes)
	svc := service.NewWorkshopService(nil, nil, ingredients, dishes, graph, nil, 0)

	_, err := svc.GenerateConcept(context.Background(), dto.RecipeConceptRequest{Theme: "bistronomie d'automne"})
	assert.ErrorIs(t, err, service.ErrWorkshopUnavailable)
}

func TestImportConcept_CreatesInactiveDraftAndLinksCatalog(t *testing.T) {
	ingredients := newStubIngredientRepo()
	dishes := newStubDishRepo()
	graph := newStubGraphRepo(ingredients, dishes)
	svc := service.NewWorkshopService(nil, nil, ingredients, dishes, graph, nil, 9)

	beurre := ingredients.add(&model.Ingredient{
		Name: "Beurre doux", PurchaseUnit: "kg", BaseUnit: "g", YieldPercentage: 100,
	})

	resp, err := svc.ImportConcept(context.Background(), dto.ImportConceptRequest{
		Concept: dto.RecipeConcept{
			Name:     "Sablé breton revisité",
			Category: "Desserts",
			Portions: 8,
			Ingredients: []dto.ConceptIngredientLine{
				{Name: "beurre doux", Quantity: 200, Unit: "g"},
				{Name: "poudre de yuzu", Quantity: 10, Unit: "g"},
			},
			Procedure:      "Sabler, cuire, dresser.",
			SuggestedPrice: 9.5,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Linked)
	assert.Equal(t, []string{"poudre de yuzu"}, resp.Unmatched)

	// Le brouillon est créé inactif : il n'apparaît pas sur la carte.
	dish, err := dishes.FindByID(context.Background(), mustParse(t, resp.DishID))
	require.NoError(t, err)
	assert.Equal(t, "Inactif", dish.Status)
	assert.Equal(t, 8, dish.Portions)
	assert.Equal(t, 9.5, dish.Price)
	assert.Equal(t, 9.0, dish.TVARate) // taux configuré, pas une constante


	links, err := graph.ListIngredientLinks(context.Background(), model.KindDish, dish.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, beurre.ID, links[0].IngredientID)
	assert.Equal(t, 200.0, links[0].Quantity)
}

func TestImportConcept_RejectsNamelessConcept(t *testing.T) {
	ingredients := newStubIngredientRepo()
	dishes := newStubDishRepo()
	graph := newStubGraphRepo(ingredients, dishes)
	svc := service.NewWorkshopService(nil, nil, ingredients, dishes, graph, nil, 0)

	_, err := svc.ImportConcept(context.Background(), dto.ImportConceptRequest{
		Concept: dto.RecipeConcept{Portions: 4},
	})
	require.Error(t, err)
}
