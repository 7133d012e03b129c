package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateDishRequest struct {
	Name               string  `json:"name"                validate:"required,min=2,max=150"`
	Category           string  `json:"category"            validate:"required"`
	Price              float64 `json:"price"               validate:"min=0"`
	TVARate            float64 `json:"tva_rate"            validate:"omitempty,gt=0,lte=30"`
	Status             string  `json:"status"              validate:"omitempty,oneof=Actif Inactif"`
	Portions           float64 `json:"portions"            validate:"min=0"`
	ProductionQuantity float64 `json:"production_quantity" validate:"min=0"`
	ProductionUnit     string  `json:"production_unit"`
	Procedure          string  `json:"procedure"`
	CommercialArgument string  `json:"commercial_argument"`
	ImageURL           string  `json:"image_url"           validate:"omitempty,url"`
}

type UpdateDishRequest struct {
	Name               *string  `json:"name"                validate:"omitempty,min=2,max=150"`
	Category           *string  `json:"category"`
	Price              *float64 `json:"price"               validate:"omitempty,min=0"`
	TVARate            *float64 `json:"tva_rate"            validate:"omitempty,gt=0,lte=30"`
	Status             *string  `json:"status"              validate:"omitempty,oneof=Actif Inactif"`
	Portions           *float64 `json:"portions"            validate:"omitempty,min=0"`
	ProductionQuantity *float64 `json:"production_quantity" validate:"omitempty,min=0"`
	ProductionUnit     *string  `json:"production_unit"`
	Procedure          *string  `json:"procedure"`
	CommercialArgument *string  `json:"commercial_argument"`
	ImageURL           *string  `json:"image_url"           validate:"omitempty,url"`
}

type CreatePreparationRequest struct {
	Name               string             `json:"name"                validate:"required,min=2,max=150"`
	Category           string             `json:"category"`
	ProductionQuantity float64            `json:"production_quantity" validate:"min=0"`
	ProductionUnit     string             `json:"production_unit"     validate:"required"`
	UsageUnit          string             `json:"usage_unit"`
	Portions           float64            `json:"portions"            validate:"min=0"`
	Procedure          string             `json:"procedure"`
	Equivalences       map[string]float64 `json:"equivalences"`
}

type UpdatePreparationRequest struct {
	Name               *string            `json:"name"                validate:"omitempty,min=2,max=150"`
	Category           *string            `json:"category"`
	ProductionQuantity *float64           `json:"production_quantity" validate:"omitempty,min=0"`
	ProductionUnit     *string            `json:"production_unit"`
	UsageUnit          *string            `json:"usage_unit"`
	Portions           *float64           `json:"portions"            validate:"omitempty,min=0"`
	Procedure          *string            `json:"procedure"`
	Equivalences       map[string]float64 `json:"equivalences"`
}

// ─── Composition ─────────────────────────────────────────────────────────────

type IngredientLineRequest struct {
	IngredientID string  `json:"ingredient_id" validate:"required,uuid"`
	Quantity     float64 `json:"quantity"      validate:"required,gt=0"`
	Unit         string  `json:"unit"          validate:"required"`
}

type PreparationLineRequest struct {
	PreparationID string  `json:"preparation_id" validate:"required,uuid"`
	Quantity      float64 `json:"quantity"       validate:"required,gt=0"`
	Unit          string  `json:"unit"           validate:"required"`
}

// SetCompositionRequest replaces the full edge set of a dish or preparation.
type SetCompositionRequest struct {
	Ingredients  []IngredientLineRequest  `json:"ingredients"  validate:"dive"`
	Preparations []PreparationLineRequest `json:"preparations" validate:"dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type RecipeFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Status   string `form:"status"` // Actif | Inactif | all
	Page     int    `form:"page,default=1"  validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IngredientLineResponse struct {
	IngredientID string  `json:"ingredient_id"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Cost         float64 `json:"cost"`
}

type PreparationLineResponse struct {
	PreparationID string  `json:"preparation_id"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	Cost          float64 `json:"cost"`
}

type DishResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	Price              float64 `json:"price"`
	TVARate            float64 `json:"tva_rate"`
	Status             string  `json:"status"`
	Portions           float64 `json:"portions"`
	ProductionQuantity float64 `json:"production_quantity"`
	ProductionUnit     string  `json:"production_unit"`
	Procedure          string  `json:"procedure,omitempty"`
	CommercialArgument string  `json:"commercial_argument,omitempty"`
	ImageURL           string  `json:"image_url,omitempty"`
}

type DishListResponse struct {
	Data       []DishResponse `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type PreparationResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	ProductionQuantity float64 `json:"production_quantity"`
	ProductionUnit     string  `json:"production_unit"`
	UsageUnit          string             `json:"usage_unit,omitempty"`
	Portions           float64            `json:"portions"`
	Procedure          string             `json:"procedure,omitempty"`
	Equivalences       map[string]float64 `json:"equivalences,omitempty"`
	CostPerUnit        float64            `json:"cost_per_unit"`
}

type PreparationListResponse struct {
	Data       []PreparationResponse `json:"data"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"total_pages"`
}

// RecipeCostResponse is the full cost breakdown of one dish or preparation.
type RecipeCostResponse struct {
	ID               string                    `json:"id"`
	Name             string                    `json:"name"`
	Kind             string                    `json:"kind"`
	Ingredients      []IngredientLineResponse  `json:"ingredients"`
	Preparations     []PreparationLineResponse `json:"preparations"`
	TotalCost        float64                   `json:"total_cost"`
	CostPerPortion   float64                   `json:"cost_per_portion"`
	PriceHT          float64                   `json:"price_ht,omitempty"`
	GrossMargin      float64                   `json:"gross_margin,omitempty"`
	GrossMarginPct   float64                   `json:"gross_margin_pct,omitempty"`
	FoodCostPct      float64                   `json:"food_cost_pct,omitempty"`
	Multiplier       float64                   `json:"multiplier,omitempty"`
	CostPerBatchUnit float64                   `json:"cost_per_batch_unit,omitempty"`
}
