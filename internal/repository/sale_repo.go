package repository

import (
	"context"

	"brigade/internal/dto"
	"brigade/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleRepository is the data access contract for persisted sales.
type SaleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	NextTicketNumber(ctx context.Context, tx *gorm.DB) (int, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").Preload("Items.Dish").First(&s, id).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}
	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").Preload("Items.Dish").
		Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&sales).Error
	return sales, total, err
}

// NextTicketNumber allocates the next ticket number from the dedicated
// Postgres sequence. Each call gets a distinct number even when transactions
// overlap; a MAX()+1 scan would hand the same number to concurrent sales and
// the unique index would abort one of them.
func (r *saleRepo) NextTicketNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	var n int
	err := tx.Raw(`SELECT nextval('sales_ticket_number_seq')`).Scan(&n).Error
	return n, err
}

func (r *saleRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Sale{}).Where("id = ?", id).Update("status", status).Error
}

func (r *saleRepo) DB() *gorm.DB { return r.db }
