package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RecipeConceptRequest asks the workshop to draft a recipe concept.
type RecipeConceptRequest struct {
	Theme       string   `json:"theme"        validate:"required,min=3,max=200"`
	Category    string   `json:"category"`
	Constraints []string `json:"constraints"  validate:"max=10"`
	// TargetFoodCostPct caps the suggested selling price computation.
	TargetFoodCostPct float64 `json:"target_food_cost_pct" validate:"omitempty,gt=0,lt=100"`
}

// ImportConceptRequest persists a previously generated concept as a dish
// draft, matching concept ingredient names against the catalog.
type ImportConceptRequest struct {
	Concept RecipeConcept `json:"concept" validate:"required"`
	Status  string        `json:"status"  validate:"omitempty,oneof=Actif Inactif"`
}

// ─── Concept payload ─────────────────────────────────────────────────────────

// RecipeConcept is the JSON structure the model is instructed to emit.
type RecipeConcept struct {
	Name               string                  `json:"name"`
	Category           string                  `json:"category"`
	Portions           float64                 `json:"portions"`
	Ingredients        []ConceptIngredientLine `json:"ingredients"`
	Procedure          string                  `json:"procedure"`
	CommercialArgument string                  `json:"commercial_argument"`
	SuggestedPrice     float64                 `json:"suggested_price"`
}

type ConceptIngredientLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type RecipeConceptResponse struct {
	Concept RecipeConcept `json:"concept"`
	// Matched maps concept ingredient names to catalog ingredient IDs.
	Matched   map[string]string `json:"matched"`
	Unmatched []string          `json:"unmatched"`
	// EstimatedCost is computed from matched catalog ingredients only.
	EstimatedCost float64 `json:"estimated_cost"`
}

type ImportConceptResponse struct {
	DishID    string   `json:"dish_id"`
	Name      string   `json:"name"`
	Linked    int      `json:"linked"`
	Unmatched []string `json:"unmatched"`
}
