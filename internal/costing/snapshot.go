package costing

import (
	"brigade/internal/model"

	"github.com/google/uuid"
)

// Snapshot is the flat in-memory image of the composition graph: every
// ingredient, every preparation and every link, bulk-loaded in one pass.
// Each costing or planning call rebuilds its own snapshot from the backing
// collections; nothing here is shared or mutated across requests.
type Snapshot struct {
	Ingredients  map[uuid.UUID]*model.Ingredient
	Preparations map[uuid.UUID]*model.Preparation

	ingredientLinks  map[linkKey][]model.RecipeIngredient
	preparationLinks map[linkKey][]model.RecipePreparation
}

type linkKey struct {
	kind model.ParentKind
	id   uuid.UUID
}

// NewSnapshot indexes the flat collections into adjacency maps.
func NewSnapshot(
	ingredients []model.Ingredient,
	preparations []model.Preparation,
	ingredientLinks []model.RecipeIngredient,
	preparationLinks []model.RecipePreparation,
) *Snapshot {
	s := &Snapshot{
		Ingredients:      make(map[uuid.UUID]*model.Ingredient, len(ingredients)),
		Preparations:     make(map[uuid.UUID]*model.Preparation, len(preparations)),
		ingredientLinks:  make(map[linkKey][]model.RecipeIngredient),
		preparationLinks: make(map[linkKey][]model.RecipePreparation),
	}
	for i := range ingredients {
		s.Ingredients[ingredients[i].ID] = &ingredients[i]
	}
	for i := range preparations {
		s.Preparations[preparations[i].ID] = &preparations[i]
	}
	for _, l := range ingredientLinks {
		k := linkKey{l.ParentKind, l.ParentID}
		s.ingredientLinks[k] = append(s.ingredientLinks[k], l)
	}
	for _, l := range preparationLinks {
		k := linkKey{l.ParentKind, l.ParentID}
		s.preparationLinks[k] = append(s.preparationLinks[k], l)
	}
	return s
}

// IngredientLinksOf returns the direct ingredient edges of a dish or preparation.
func (s *Snapshot) IngredientLinksOf(kind model.ParentKind, id uuid.UUID) []model.RecipeIngredient {
	return s.ingredientLinks[linkKey{kind, id}]
}

// PreparationLinksOf returns the direct child-preparation edges of a dish or
// preparation.
func (s *Snapshot) PreparationLinksOf(kind model.ParentKind, id uuid.UUID) []model.RecipePreparation {
	return s.preparationLinks[linkKey{kind, id}]
}
