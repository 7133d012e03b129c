package repository

import (
	"context"

	"brigade/internal/dto"
	"brigade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DishRepository is the data access contract for sellable dishes.
type DishRepository interface {
	Create(ctx context.Context, d *model.Dish) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Dish, error)
	List(ctx context.Context, filter dto.RecipeFilter) ([]model.Dish, int64, error)
	ListActive(ctx context.Context) ([]model.Dish, error)
	Update(ctx context.Context, d *model.Dish) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PreparationRepository is the data access contract for preparations.
type PreparationRepository interface {
	Create(ctx context.Context, p *model.Preparation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Preparation, error)
	List(ctx context.Context, filter dto.RecipeFilter) ([]model.Preparation, int64, error)
	Update(ctx context.Context, p *model.Preparation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type dishRepo struct{ db *gorm.DB }

func NewDishRepository(db *gorm.DB) DishRepository { return &dishRepo{db: db} }

func (r *dishRepo) Create(ctx context.Context, d *model.Dish) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *dishRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Dish, error) {
	var d model.Dish
	err := r.db.WithContext(ctx).First(&d, id).Error
	return &d, err
}

func (r *dishRepo) List(ctx context.Context, filter dto.RecipeFilter) ([]model.Dish, int64, error) {
	var dishes []model.Dish
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Dish{})
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&dishes).Error
	return dishes, total, err
}

func (r *dishRepo) ListActive(ctx context.Context) ([]model.Dish, error) {
	var dishes []model.Dish
	err := r.db.WithContext(ctx).Where("status = ?", "Actif").Order("name ASC").Find(&dishes).Error
	return dishes, err
}

func (r *dishRepo) Update(ctx context.Context, d *model.Dish) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *dishRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Dish{}, id).Error
}

type preparationRepo struct{ db *gorm.DB }

func NewPreparationRepository(db *gorm.DB) PreparationRepository { return &preparationRepo{db: db} }

func (r *preparationRepo) Create(ctx context.Context, p *model.Preparation) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *preparationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Preparation, error) {
	var p model.Preparation
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *preparationRepo) List(ctx context.Context, filter dto.RecipeFilter) ([]model.Preparation, int64, error) {
	var preps []model.Preparation
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Preparation{})
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
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&preps).Error
	return preps, total, err
}

func (r *preparationRepo) Update(ctx context.Context, p *model.Preparation) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *preparationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Preparation{}, id).Error
}
