package model

import (
	"time"

	"github.com/google/uuid"
)

// ParentKind discriminates which table a composition link's parent lives in.
// The dependency graph has exactly two node families: sellable dishes and
// intermediate preparations. Only preparations can appear as children.
type ParentKind string

const (
	KindDish        ParentKind = "dish"
	KindPreparation ParentKind = "preparation"
)

// RecipeCore holds the fields shared by dishes and preparations: every fiche
// technique has a name, a batch yield and procedure text.
type RecipeCore struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"index;not null" json:"name"`
	Category string    `gorm:"not null;default:'Divers'" json:"category"`
	// ProductionQuantity + ProductionUnit describe the total yield of one batch
	// (e.g. 2 kg of sauce). Cost-per-production-unit divides by this quantity.
	ProductionQuantity float64   `gorm:"not null;default:1" json:"productionQuantity"`
	ProductionUnit     string    `gorm:"not null;default:'kg'" json:"productionUnit"`
	Portions           int       `gorm:"not null;default:1" json:"portions"`
	Procedure          string    `gorm:"type:text" json:"procedure"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Preparation is an intermediate sub-recipe (sauce, base, garnish) producing
// a batch consumed by other recipes. UsageUnit is the unit parents reference
// it by when it differs from the production unit.
type Preparation struct {
	RecipeCore
	UsageUnit string `gorm:"not null;default:''" json:"usageUnit"`
	// Equivalences maps ad hoc units onto the production dimension
	// (e.g. 1 pièce of terrine = 250 g).
	Equivalences EquivalenceMap `gorm:"type:jsonb" json:"equivalences"`
}

func (Preparation) TableName() string { return "preparations" }

// UnitEquivalences satisfies costing.EquivalenceProvider.
func (p *Preparation) UnitEquivalences() map[string]float64 {
	if p == nil {
		return nil
	}
	return p.Equivalences
}

// Dish is a sellable menu item (type "Plat" on the original fiches).
type Dish struct {
	RecipeCore
	Price   float64 `gorm:"not null;default:0" json:"price"`
	TVARate float64 `gorm:"not null;default:10" json:"tvaRate"`
	// Status: "Actif" | "Inactif" — inactive dishes are excluded from menu analysis.
	Status             string `gorm:"not null;default:'Actif'" json:"status"`
	CommercialArgument string `gorm:"type:text" json:"commercialArgument"`
	ImageURL           string `json:"imageUrl"`
}

func (Dish) TableName() string { return "dishes" }
