package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date   string `form:"date"`                     // YYYY-MM-DD; empty = today
	Status string `form:"status,default=complétée"` // complétée | annulée | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type StockMovementFilter struct {
	IngredientID string `form:"ingredient_id" validate:"omitempty,uuid"`
	Type         string `form:"type"          validate:"omitempty,oneof=vente annulation ajustement inventaire"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	DishID   string `json:"dish_id"  validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type ProcessOrderRequest struct {
	TableID string             `json:"table_id" validate:"required,uuid"`
	Items   []OrderItemRequest `json:"items"    validate:"required,min=1,dive"`
	// CustomerEmail: optional — when present, the receipt worker mails the PDF ticket.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	Dish      string          `json:"dish"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID           string             `json:"id"`
	TicketNumber int                `json:"ticket_number"`
	TableID      string             `json:"table_id"`
	Items        []SaleItemResponse `json:"items"`
	Total        decimal.Decimal    `json:"total"`
	Status       string             `json:"status"`
	// StockWarnings lists ingredients whose stock went negative during deduction.
	StockWarnings []string `json:"stock_warnings,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	Ingredient  string  `json:"ingredient"`
	Type        string  `json:"type"`
	Quantity    float64 `json:"quantity"`
	StockBefore float64 `json:"stock_before"`
	StockAfter  float64 `json:"stock_after"`
	Reason      string  `json:"reason,omitempty"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

// ─── Tables ──────────────────────────────────────────────────────────────────

type CreateTableRequest struct {
	Number   int `json:"number"   validate:"required,min=1"`
	Capacity int `json:"capacity" validate:"min=1"`
}

type TableResponse struct {
	ID       string  `json:"id"`
	Number   int     `json:"number"`
	Capacity int     `json:"capacity"`
	Status   string  `json:"status"`
	OpenedAt *string `json:"opened_at,omitempty"`
}
