package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EquivalenceMap stores ad hoc unit equivalences for a single ingredient,
// e.g. {"botte": 250} meaning one botte weighs 250 g. Persisted as a JSON
// column; consulted by the unit converter before the static factor table.
type EquivalenceMap map[string]float64

func (m EquivalenceMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *EquivalenceMap) Scan(value interface{}) error {
	if value == nil {
		*m = EquivalenceMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return errors.New("unsupported type for EquivalenceMap")
	}
}

// Ingredient is a purchasable raw material. PurchasePrice is the cost of one
// purchase pack; PurchaseWeightGrams is the mass (or volume in ml) of that
// pack, so PurchasePrice/PurchaseWeightGrams is always a per-gram or per-ml
// cost. StockQuantity is kept in purchase units (e.g. 3.5 when buying by kg).
type Ingredient struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name                string    `gorm:"index;not null" json:"name"`
	Category            string    `gorm:"not null;default:'Divers'" json:"category"`
	PurchasePrice       float64   `gorm:"not null;default:0" json:"purchasePrice"`
	PurchaseUnit        string    `gorm:"not null;default:'kg'" json:"purchaseUnit"`
	PurchaseWeightGrams float64   `gorm:"not null;default:0" json:"purchaseWeightGrams"`
	// YieldPercentage is the usable fraction after trim/cooking loss (rendement).
	YieldPercentage   float64        `gorm:"not null;default:100" json:"yieldPercentage"`
	StockQuantity     float64        `gorm:"not null;default:0" json:"stockQuantity"`
	LowStockThreshold float64        `gorm:"not null;default:0" json:"lowStockThreshold"`
	BaseUnit          string         `gorm:"not null;default:'g'" json:"baseUnit"` // g | ml | pièce
	Equivalences      EquivalenceMap `gorm:"type:jsonb" json:"equivalences"`
	Supplier          *string        `json:"supplier,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

func (Ingredient) TableName() string { return "ingredients" }

// UnitEquivalences satisfies costing.EquivalenceProvider.
func (i *Ingredient) UnitEquivalences() map[string]float64 {
	if i == nil {
		return nil
	}
	return i.Equivalences
}
