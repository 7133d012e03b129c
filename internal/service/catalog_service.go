package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"brigade/internal/dto"
	"brigade/internal/model"
	"brigade/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogService manages the ingredient catalog and its stock.
type CatalogService interface {
	CreateIngredient(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error)
	ListIngredients(ctx context.Context, filter dto.IngredientFilter) (*dto.IngredientListResponse, error)
	UpdateIngredient(ctx context.Context, id uuid.UUID, req dto.UpdateIngredientRequest) (*dto.IngredientResponse, error)
	DeleteIngredient(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.IngredientResponse, error)
	StockAlerts(ctx context.Context) (*dto.StockAlertResponse, error)
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error)
}

type catalogService struct {
	ingredients repository.IngredientRepository
	movements   repository.StockMovementRepository
	rdb         *redis.Client
}

func NewCatalogService(
	ingredients repository.IngredientRepository,
	movements repository.StockMovementRepository,
	rdb *redis.Client,
) CatalogService {
	return &catalogService{ingredients: ingredients, movements: movements, rdb: rdb}
}

func (s *catalogService) CreateIngredient(ctx context.Context, req dto.CreateIngredientRequest) (*dto.IngredientResponse, error) {
	ing := &model.Ingredient{
		Name:                req.Name,
		Category:            req.Category,
		PurchasePrice:       req.PurchasePrice,
		PurchaseUnit:        req.PurchaseUnit,
		PurchaseWeightGrams: req.PurchaseWeightGrams,
		YieldPercentage:     req.YieldPercentage,
		StockQuantity:       req.StockQuantity,
		LowStockThreshold:   req.LowStockThreshold,
		BaseUnit:            req.BaseUnit,
		Equivalences:        req.Equivalences,
		Supplier:            req.Supplier,
	}
	if ing.YieldPercentage <= 0 || ing.YieldPercentage > 100 {
		ing.YieldPercentage = 100
	}
	if ing.BaseUnit == "" {
		ing.BaseUnit = "g"
	}
	if err := s.ingredients.Create(ctx, ing); err != nil {
		return nil, err
	}
	bumpCatalogVersion(ctx, s.rdb)
	resp := ingredientToResponse(ing)
	return &resp, nil
}

func (s *catalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*dto.IngredientResponse, error) {
	ing, err := s.ingredients.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("ingrédient introuvable")
	}
	resp := ingredientToResponse(ing)
	return &resp, nil
}

func (s *catalogService) ListIngredients(ctx context.Context, filter dto.IngredientFilter) (*dto.IngredientListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	items, total, err := s.ingredients.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.IngredientResponse, len(items))
	for i := range items {
		data[i] = ingredientToResponse(&items[i])
	}
	return &dto.IngredientListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *catalogService) UpdateIngredient(ctx context.Context, id uuid.UUID, req dto.UpdateIngredientRequest) (*dto.IngredientResponse, error) {
	ing, err := s.ingredients.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("ingrédient introuvable")
	}
	if req.Name != nil {
		ing.Name = *req.Name
	}
	if req.Category != nil {
		ing.Category = *req.Category
	}
	if req.PurchasePrice != nil {
		ing.PurchasePrice = *req.PurchasePrice
	}
	if req.PurchaseUnit != nil {
		ing.PurchaseUnit = *req.PurchaseUnit
	}
	if req.PurchaseWeightGrams != nil {
		ing.PurchaseWeightGrams = *req.PurchaseWeightGrams
	}
	if req.YieldPercentage != nil {
		ing.YieldPercentage = *req.YieldPercentage
	}
	if req.LowStockThreshold != nil {
		ing.LowStockThreshold = *req.LowStockThreshold
	}
	if req.BaseUnit != nil {
		ing.BaseUnit = *req.BaseUnit
	}
	if req.Equivalences != nil {
		ing.Equivalences = req.Equivalences
	}
	if req.Supplier != nil {
		ing.Supplier = req.Supplier
	}
	if err := s.ingredients.Update(ctx, ing); err != nil {
		return nil, err
	}
	bumpCatalogVersion(ctx, s.rdb)
	resp := ingredientToResponse(ing)
	return &resp, nil
}

func (s *catalogService) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ingredients.FindByID(ctx, id); err != nil {
		return errors.New("ingrédient introuvable")
	}
	if err := s.ingredients.Delete(ctx, id); err != nil {
		return err
	}
	bumpCatalogVersion(ctx, s.rdb)
	return nil
}

// AdjustStock applies a signed manual correction, in purchase units, and
// appends the matching ledger entry in the same transaction.
func (s *catalogService) AdjustStock(ctx context.Context, id uuid.UUID, req dto.AdjustStockRequest) (*dto.IngredientResponse, error) {
	var updated *model.Ingredient
	txErr := runTx(ctx, s.ingredients.DB(), func(tx *gorm.DB) error {
		ing, err := s.ingredients.FindByIDTx(tx, id)
		if err != nil {
			return errors.New("ingrédient introuvable")
		}
		before := ing.StockQuantity
		after := before + req.Quantity
		if after < 0 {
			log.Warn().Str("ingredient", ing.Name).
				Float64("before", before).Float64("delta", req.Quantity).
				Msg("ajustement de stock vers une valeur négative")
		}
		if err := s.ingredients.SetStockTx(tx, id, after); err != nil {
			return err
		}
		mov := &model.StockMovement{
			IngredientID: id,
			Type:         "ajustement",
			Quantity:     req.Quantity,
			StockBefore:  before,
			StockAfter:   after,
			Reason:       req.Reason,
		}
		if err := s.movements.CreateTx(tx, mov); err != nil {
			return err
		}
		ing.StockQuantity = after
		updated = ing
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	resp := ingredientToResponse(updated)
	return &resp, nil
}

func (s *catalogService) StockAlerts(ctx context.Context) (*dto.StockAlertResponse, error) {
	items, err := s.ingredients.ListBelowThreshold(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockAlertResponse{Count: len(items), Items: make([]dto.IngredientResponse, len(items))}
	for i := range items {
		resp.Items[i] = ingredientToResponse(&items[i])
	}
	return resp, nil
}

func (s *catalogService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		name := ""
		if m.Ingredient != nil {
			name = m.Ingredient.Name
		}
		var ref *string
		if m.ReferenceID != nil {
			r := m.ReferenceID.String()
			ref = &r
		}
		data[i] = dto.StockMovementResponse{
			ID:          m.ID.String(),
			Ingredient:  name,
			Type:        m.Type,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			ReferenceID: ref,
			CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	return &dto.StockMovementListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func ingredientToResponse(ing *model.Ingredient) dto.IngredientResponse {
	return dto.IngredientResponse{
		ID:                  ing.ID.String(),
		Name:                ing.Name,
		Category:            ing.Category,
		PurchasePrice:       ing.PurchasePrice,
		PurchaseUnit:        ing.PurchaseUnit,
		PurchaseWeightGrams: ing.PurchaseWeightGrams,
		YieldPercentage:     ing.YieldPercentage,
		StockQuantity:       ing.StockQuantity,
		LowStockThreshold:   ing.LowStockThreshold,
		BaseUnit:            ing.BaseUnit,
		Equivalences:        ing.Equivalences,
		Supplier:            ing.Supplier,
		LowStock:            ing.LowStockThreshold > 0 && ing.StockQuantity <= ing.LowStockThreshold,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// reasonForSale labels ledger rows created by the register.
func reasonForSale(ticket int) string {
	return fmt.Sprintf("Vente #%d", ticket)
}
