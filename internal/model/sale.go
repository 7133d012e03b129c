package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the persisted snapshot of a validated table order. Money fields use
// decimal at the register; the costing engine itself works in float64 and is
// never fed back from these columns.
// Status: "complétée" | "annulée"
type Sale struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TicketNumber int       `gorm:"uniqueIndex;not null" json:"ticketNumber"`
	TableID      uuid.UUID `gorm:"type:uuid;not null;index" json:"tableId"`
	UserID       uuid.UUID `gorm:"type:uuid;not null" json:"userId"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status       string          `gorm:"type:varchar(20);not null;default:'complétée'" json:"status"`
	// CustomerEmail, when captured at the register, makes the receipt worker
	// email the ticket PDF after commit.
	CustomerEmail *string   `json:"customerEmail,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

func (Sale) TableName() string { return "sales" }

// SaleItem is one order line: a dish sold Quantity times at UnitPrice.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"saleId"`
	DishID    uuid.UUID       `gorm:"type:uuid;not null" json:"dishId"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`

	Dish *Dish `gorm:"foreignKey:DishID" json:"dish,omitempty"`
}

func (SaleItem) TableName() string { return "sale_items" }
