package repository

import (
	"context"
	"time"

	"brigade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TableRepository manages dining-table occupancy.
type TableRepository interface {
	Create(ctx context.Context, t *model.DiningTable) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DiningTable, error)
	List(ctx context.Context) ([]model.DiningTable, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
}

type tableRepo struct{ db *gorm.DB }

func NewTableRepository(db *gorm.DB) TableRepository { return &tableRepo{db: db} }

func (r *tableRepo) Create(ctx context.Context, t *model.DiningTable) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tableRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.DiningTable, error) {
	var t model.DiningTable
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *tableRepo) List(ctx context.Context) ([]model.DiningTable, error) {
	var tables []model.DiningTable
	err := r.db.WithContext(ctx).Order("number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	updates := map[string]interface{}{"status": status}
	if status == "Occupée" {
		now := time.Now()
		updates["opened_at"] = &now
	} else {
		updates["opened_at"] = nil
	}
	return r.db.WithContext(ctx).Model(&model.DiningTable{}).Where("id = ?", id).Updates(updates).Error
}
