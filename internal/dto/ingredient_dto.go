package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateIngredientRequest struct {
	Name                string             `json:"name"                  validate:"required,min=2,max=120"`
	Category            string             `json:"category"              validate:"required"`
	PurchasePrice       float64            `json:"purchase_price"        validate:"min=0"`
	PurchaseUnit        string             `json:"purchase_unit"         validate:"required"`
	PurchaseWeightGrams float64            `json:"purchase_weight_grams" validate:"min=0"`
	YieldPercentage     float64            `json:"yield_percentage"      validate:"min=0,max=100"`
	StockQuantity       float64            `json:"stock_quantity"        validate:"min=0"`
	LowStockThreshold   float64            `json:"low_stock_threshold"   validate:"min=0"`
	BaseUnit            string             `json:"base_unit"             validate:"omitempty,oneof=g ml pièce"`
	Equivalences        map[string]float64 `json:"equivalences"`
	Supplier            *string            `json:"supplier"`
}

type UpdateIngredientRequest struct {
	Name                *string            `json:"name"                  validate:"omitempty,min=2,max=120"`
	Category            *string            `json:"category"`
	PurchasePrice       *float64           `json:"purchase_price"        validate:"omitempty,min=0"`
	PurchaseUnit        *string            `json:"purchase_unit"`
	PurchaseWeightGrams *float64           `json:"purchase_weight_grams" validate:"omitempty,min=0"`
	YieldPercentage     *float64           `json:"yield_percentage"      validate:"omitempty,min=0,max=100"`
	LowStockThreshold   *float64           `json:"low_stock_threshold"   validate:"omitempty,min=0"`
	BaseUnit            *string            `json:"base_unit"             validate:"omitempty,oneof=g ml pièce"`
	Equivalences        map[string]float64 `json:"equivalences"`
	Supplier            *string            `json:"supplier"`
}

// AdjustStockRequest records a manual stock correction. Quantity is signed and
// expressed in purchase units; a reason is mandatory for the ledger.
type AdjustStockRequest struct {
	Quantity float64 `json:"quantity" validate:"required"`
	Reason   string  `json:"reason"   validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type IngredientFilter struct {
	Name     string `form:"name"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1"  validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IngredientResponse struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Category            string             `json:"category"`
	PurchasePrice       float64            `json:"purchase_price"`
	PurchaseUnit        string             `json:"purchase_unit"`
	PurchaseWeightGrams float64            `json:"purchase_weight_grams"`
	YieldPercentage     float64            `json:"yield_percentage"`
	StockQuantity       float64            `json:"stock_quantity"`
	LowStockThreshold   float64            `json:"low_stock_threshold"`
	BaseUnit            string             `json:"base_unit"`
	Equivalences        map[string]float64 `json:"equivalences,omitempty"`
	Supplier            *string            `json:"supplier,omitempty"`
	LowStock            bool               `json:"low_stock"`
}

type IngredientListResponse struct {
	Data       []IngredientResponse `json:"data"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	TotalPages int                  `json:"total_pages"`
}

// StockAlertResponse lists every ingredient at or below its threshold.
type StockAlertResponse struct {
	Count int                  `json:"count"`
	Items []IngredientResponse `json:"items"`
}
