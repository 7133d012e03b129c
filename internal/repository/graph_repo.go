package repository

import (
	"context"

	"brigade/internal/costing"
	"brigade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GraphRepository bulk-loads the composition graph and manages its edges.
// LoadSnapshot is the fetch-everything primitive every costing and planning
// call starts from: four flat reads, indexed in memory, no joins.
type GraphRepository interface {
	LoadSnapshot(ctx context.Context) (*costing.Snapshot, error)
	ListIngredientLinks(ctx context.Context, kind model.ParentKind, parentID uuid.UUID) ([]model.RecipeIngredient, error)
	ListPreparationLinks(ctx context.Context, kind model.ParentKind, parentID uuid.UUID) ([]model.RecipePreparation, error)
	// ReplaceComposition swaps a parent's full edge set atomically.
	ReplaceComposition(ctx context.Context, kind model.ParentKind, parentID uuid.UUID,
		ingredients []model.RecipeIngredient, preparations []model.RecipePreparation) error
}

type graphRepo struct{ db *gorm.DB }

func NewGraphRepository(db *gorm.DB) GraphRepository { return &graphRepo{db: db} }

func (r *graphRepo) LoadSnapshot(ctx context.Context) (*costing.Snapshot, error) {
	var (
		ingredients []model.Ingredient
		preps       []model.Preparation
		ingLinks    []model.RecipeIngredient
		prepLinks   []model.RecipePreparation
	)
	db := r.db.WithContext(ctx)
	if err := db.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&preps).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&ingLinks).Error; err != nil {
		return nil, err
	}
	if err := db.Find(&prepLinks).Error; err != nil {
		return nil, err
	}
	return costing.NewSnapshot(ingredients, preps, ingLinks, prepLinks), nil
}

func (r *graphRepo) ListIngredientLinks(ctx context.Context, kind model.ParentKind, parentID uuid.UUID) ([]model.RecipeIngredient, error) {
	var links []model.RecipeIngredient
	err := r.db.WithContext(ctx).Preload("Ingredient").
		Where("parent_kind = ? AND parent_id = ?", kind, parentID).Find(&links).Error
	return links, err
}

func (r *graphRepo) ListPreparationLinks(ctx context.Context, kind model.ParentKind, parentID uuid.UUID) ([]model.RecipePreparation, error) {
	var links []model.RecipePreparation
	err := r.db.WithContext(ctx).Preload("Child").
		Where("parent_kind = ? AND parent_id = ?", kind, parentID).Find(&links).Error
	return links, err
}

func (r *graphRepo) ReplaceComposition(ctx context.Context, kind model.ParentKind, parentID uuid.UUID,
	ingredients []model.RecipeIngredient, preparations []model.RecipePreparation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_kind = ? AND parent_id = ?", kind, parentID).
			Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_kind = ? AND parent_id = ?", kind, parentID).
			Delete(&model.RecipePreparation{}).Error; err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].ParentKind = kind
			ingredients[i].ParentID = parentID
		}
		for i := range preparations {
			preparations[i].ParentKind = kind
			preparations[i].ParentID = parentID
		}
		if len(ingredients) > 0 {
			if err := tx.Create(&ingredients).Error; err != nil {
				return err
			}
		}
		if len(preparations) > 0 {
			if err := tx.Create(&preparations).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
