package repository

import (
	"context"
	"strings"

	"brigade/internal/dto"
	"brigade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IngredientRepository defines the data access contract for ingredients.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type IngredientRepository interface {
	Create(ctx context.Context, ing *model.Ingredient) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	FindByNames(ctx context.Context, names []string) ([]model.Ingredient, error)
	List(ctx context.Context, filter dto.IngredientFilter) ([]model.Ingredient, int64, error)
	ListBelowThreshold(ctx context.Context) ([]model.Ingredient, error)
	Update(ctx context.Context, ing *model.Ingredient) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error)
	SetStockTx(tx *gorm.DB, id uuid.UUID, newStock float64) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type ingredientRepo struct{ db *gorm.DB }

func NewIngredientRepository(db *gorm.DB) IngredientRepository { return &ingredientRepo{db: db} }

func (r *ingredientRepo) Create(ctx context.Context, ing *model.Ingredient) error {
	return r.db.WithContext(ctx).Create(ing).Error
}

func (r *ingredientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var ing model.Ingredient
	err := r.db.WithContext(ctx).First(&ing, id).Error
	return &ing, err
}

func (r *ingredientRepo) FindByNames(ctx context.Context, names []string) ([]model.Ingredient, error) {
	var out []model.Ingredient
	if len(names) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("LOWER(name) IN ?", lowered(names)).Find(&out).Error
	return out, err
}

func lowered(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

func (r *ingredientRepo) List(ctx context.Context, filter dto.IngredientFilter) ([]model.Ingredient, int64, error) {
	var ingredients []model.Ingredient
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Ingredient{})
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&ingredients).Error
	return ingredients, total, err
}

func (r *ingredientRepo) ListBelowThreshold(ctx context.Context) ([]model.Ingredient, error) {
	var out []model.Ingredient
	err := r.db.WithContext(ctx).
		Where("low_stock_threshold > 0 AND stock_quantity <= low_stock_threshold").
		Order("name ASC").Find(&out).Error
	return out, err
}

func (r *ingredientRepo) Update(ctx context.Context, ing *model.Ingredient) error {
	return r.db.WithContext(ctx).Save(ing).Error
}

func (r *ingredientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Ingredient{}, id).Error
}

func (r *ingredientRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Ingredient, error) {
	var ing model.Ingredient
	err := tx.First(&ing, id).Error
	return &ing, err
}

func (r *ingredientRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, newStock float64) error {
	return tx.Model(&model.Ingredient{}).Where("id = ?", id).
		Update("stock_quantity", newStock).Error
}

func (r *ingredientRepo) DB() *gorm.DB { return r.db }
