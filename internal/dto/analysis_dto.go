package dto

// ─── Menu analysis ───────────────────────────────────────────────────────────

// MenuAnalysisLine is one active dish with its margin profile.
type MenuAnalysisLine struct {
	DishID         string  `json:"dish_id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	PriceTTC       float64 `json:"price_ttc"`
	PriceHT        float64 `json:"price_ht"`
	CostPerPortion float64 `json:"cost_per_portion"`
	GrossMargin    float64 `json:"gross_margin"`
	GrossMarginPct float64 `json:"gross_margin_pct"`
	FoodCostPct    float64 `json:"food_cost_pct"`
	Multiplier     float64 `json:"multiplier"`
}

type MenuAnalysisResponse struct {
	GeneratedAt       string             `json:"generated_at"`
	CatalogVersion    int64              `json:"catalog_version"`
	AverageMarginPct  float64            `json:"average_margin_pct"`
	AverageFoodCost   float64            `json:"average_food_cost_pct"`
	WorstFoodCostDish string             `json:"worst_food_cost_dish,omitempty"`
	Lines             []MenuAnalysisLine `json:"lines"`
	Cached            bool               `json:"cached"`
}

// ─── Production plan ─────────────────────────────────────────────────────────

// PlanForecastLine pairs a dish with a forecast quantity.
type PlanForecastLine struct {
	DishID   string  `json:"dish_id"  validate:"required,uuid"`
	Quantity float64 `json:"quantity" validate:"required,gt=0"`
}

type BuildPlanRequest struct {
	Forecast []PlanForecastLine `json:"forecast" validate:"required,min=1,dive"`
}

type PlanRequirementResponse struct {
	IngredientID string  `json:"ingredient_id"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Cost         float64 `json:"cost"`
	InStock      float64 `json:"in_stock"`
	Shortfall    float64 `json:"shortfall,omitempty"`
}

type PlanPreparationResponse struct {
	PreparationID string  `json:"preparation_id"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
}

type BuildPlanResponse struct {
	Ingredients          []PlanRequirementResponse `json:"ingredients"`
	Preparations         []PlanPreparationResponse `json:"preparations"`
	TotalIngredientsCost float64                   `json:"total_ingredients_cost"`
	Error                string                    `json:"error,omitempty"`
}
