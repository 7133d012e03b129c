package model

import (
	"time"

	"github.com/google/uuid"
)

// RecipeIngredient is a parent→ingredient composition edge: the parent dish
// or preparation uses Quantity of the ingredient, expressed in UnitUse.
type RecipeIngredient struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ParentKind   ParentKind `gorm:"type:varchar(20);not null;index:idx_recipe_ingredient_parent" json:"parentKind"`
	ParentID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_recipe_ingredient_parent" json:"parentId"`
	IngredientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"ingredientId"`
	Quantity     float64    `gorm:"not null;default:0" json:"quantity"`
	UnitUse      string     `gorm:"not null;default:'g'" json:"unitUse"`
	CreatedAt    time.Time  `json:"createdAt"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

// RecipePreparation is a parent→child-preparation edge. These edges form the
// dependency graph walked by the cost resolver and the production planner;
// the graph must be acyclic for costing to be meaningful, and cycles are
// detected and broken defensively rather than trusted never to occur.
type RecipePreparation struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ParentKind ParentKind `gorm:"type:varchar(20);not null;index:idx_recipe_preparation_parent" json:"parentKind"`
	ParentID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_recipe_preparation_parent" json:"parentId"`
	ChildID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"childId"`
	Quantity   float64    `gorm:"not null;default:0" json:"quantity"`
	UnitUse    string     `gorm:"not null;default:'g'" json:"unitUse"`
	CreatedAt  time.Time  `json:"createdAt"`

	Child *Preparation `gorm:"foreignKey:ChildID" json:"child,omitempty"`
}

func (RecipePreparation) TableName() string { return "recipe_preparations" }
