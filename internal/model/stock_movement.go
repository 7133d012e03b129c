package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every stock change on an ingredient. Movements are
// NEVER modified or deleted — voiding a sale creates inverse entries.
// Type: "vente" | "annulation" | "ajustement" | "inventaire"
// Quantity is signed and expressed in the ingredient's purchase unit
// (positive = entrée, negative = sortie), matching StockQuantity.
type StockMovement struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;index" json:"ingredientId"`
	Type         string    `gorm:"type:varchar(20);not null" json:"type"`
	Quantity     float64   `gorm:"not null" json:"quantity"`
	StockBefore  float64   `gorm:"not null" json:"stockBefore"`
	StockAfter   float64   `gorm:"not null" json:"stockAfter"`
	Reason       string    `json:"reason"`
	// ReferenceID links to the originating Sale when applicable.
	ReferenceID *uuid.UUID `gorm:"type:uuid" json:"referenceId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

func (StockMovement) TableName() string { return "stock_movements" }
