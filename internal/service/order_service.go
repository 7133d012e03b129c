package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"brigade/internal/costing"
	"brigade/internal/dto"
	"brigade/internal/model"
	"brigade/internal/repository"
	"brigade/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService validates table orders at the register. Validation is the one
// place where the composition graph touches physical stock: the full
// raw-ingredient expansion of every ordered dish is deducted atomically with
// the sale record and its ledger entries.
type OrderService interface {
	ProcessOrder(ctx context.Context, userID uuid.UUID, req dto.ProcessOrderRequest) (*dto.SaleResponse, error)
	VoidSale(ctx context.Context, id uuid.UUID, reason string) error
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type orderService struct {
	sales       repository.SaleRepository
	dishes      repository.DishRepository
	ingredients repository.IngredientRepository
	movements   repository.StockMovementRepository
	tables      repository.TableRepository
	graph       repository.GraphRepository
	dispatcher  *worker.Dispatcher
}

func NewOrderService(
	sales repository.SaleRepository,
	dishes repository.DishRepository,
	ingredients repository.IngredientRepository,
	movements repository.StockMovementRepository,
	tables repository.TableRepository,
	graph repository.GraphRepository,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{
		sales:       sales,
		dishes:      dishes,
		ingredients: ingredients,
		movements:   movements,
		tables:      tables,
		graph:       graph,
		dispatcher:  dispatcher,
	}
}

// ── ProcessOrder ─────────────────────────────────────────────────────────────
// Full ACID validation of a table order:
//  1. Resolve table and dishes, compute totals (pre-flight, outside TX)
//  2. Expand every ordered dish into base-unit ingredient needs
//  3. BEGIN TX: next ticket, create sale+items, deduct stock, write ledger
//  4. COMMIT — negative stock is persisted with a warning, never blocks a sale;
//     an ingredient missing from the catalog aborts the whole transaction
//  5. (async) free the table, enqueue receipt and low-stock jobs

func (s *orderService) ProcessOrder(ctx context.Context, userID uuid.UUID, req dto.ProcessOrderRequest) (*dto.SaleResponse, error) {
	tableID, err := uuid.Parse(req.TableID)
	if err != nil {
		return nil, fmt.Errorf("table_id invalide: %w", err)
	}
	if _, err := s.tables.FindByID(ctx, tableID); err != nil {
		return nil, errors.New("table introuvable")
	}

	// 1. Resolve dishes and compute totals.
	type resolvedItem struct {
		dishID   uuid.UUID
		name     string
		price    decimal.Decimal
		quantity int
		subtotal decimal.Decimal
	}
	var resolved []resolvedItem
	total := decimal.Zero
	for _, item := range req.Items {
		dishID, err := uuid.Parse(item.DishID)
		if err != nil {
			return nil, fmt.Errorf("dish_id invalide: %w", err)
		}
		dish, err := s.dishes.FindByID(ctx, dishID)
		if err != nil {
			return nil, fmt.Errorf("plat %s introuvable", item.DishID)
		}
		if dish.Status != "Actif" {
			return nil, fmt.Errorf("le plat %s est inactif et ne peut pas être vendu", dish.Name)
		}
		price := decimal.NewFromFloat(dish.Price)
		subtotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		resolved = append(resolved, resolvedItem{
			dishID:   dishID,
			name:     dish.Name,
			price:    price,
			quantity: item.Quantity,
			subtotal: subtotal,
		})
	}

	// 2. Expand the composition graph into base-unit ingredient needs.
	snap, err := s.graph.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	needs := make(map[uuid.UUID]float64)
	for _, r := range resolved {
		for ingID, qty := range costing.ExpandIngredientUsage(snap, model.KindDish, r.dishID, float64(r.quantity)) {
			needs[ingID] += qty
		}
	}
	// Deterministic deduction order keeps row-lock acquisition stable.
	ingredientIDs := make([]uuid.UUID, 0, len(needs))
	for id := range needs {
		ingredientIDs = append(ingredientIDs, id)
	}
	sort.Slice(ingredientIDs, func(i, j int) bool { return ingredientIDs[i].String() < ingredientIDs[j].String() })

	// 3. ACID transaction.
	var sale model.Sale
	var warnings []string
	var lowStockIDs []string
	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		warnings = warnings[:0]
		lowStockIDs = lowStockIDs[:0]

		ticketNum, err := s.sales.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			TicketNumber:  ticketNum,
			TableID:       tableID,
			UserID:        userID,
			Total:         total,
			Status:        "complétée",
			CustomerEmail: req.CustomerEmail,
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				DishID:    r.dishID,
				Quantity:  r.quantity,
				UnitPrice: r.price,
				Subtotal:  r.subtotal,
			})
		}
		if err := s.sales.Create(ctx, tx, &sale); err != nil {
			return err
		}

		for _, ingID := range ingredientIDs {
			ing, err := s.ingredients.FindByIDTx(tx, ingID)
			if err != nil {
				// Composition references an ingredient that no longer exists:
				// the sale cannot be priced against stock, abort everything.
				return fmt.Errorf("ingrédient %s absent du catalogue, vente annulée", ingID)
			}

			// Needs are in the ingredient's base unit; stock lives in purchase units.
			deduct := needs[ingID] * costing.Convert(ing.BaseUnit, ing.PurchaseUnit, ing)
			before := ing.StockQuantity
			after := before - deduct
			if after < 0 {
				log.Warn().Str("ingredient", ing.Name).
					Float64("before", before).Float64("deducted", deduct).
					Int("ticket", ticketNum).
					Msg("stock négatif après vente")
				warnings = append(warnings, ing.Name)
			}
			if err := s.ingredients.SetStockTx(tx, ingID, after); err != nil {
				return err
			}

			ref := sale.ID
			mov := &model.StockMovement{
				IngredientID: ingID,
				Type:         "vente",
				Quantity:     -deduct,
				StockBefore:  before,
				StockAfter:   after,
				Reason:       reasonForSale(ticketNum),
				ReferenceID:  &ref,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return err
			}

			if ing.LowStockThreshold > 0 && after <= ing.LowStockThreshold {
				lowStockIDs = append(lowStockIDs, ingID.String())
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 4. Post-commit side effects, best-effort.
	if err := s.tables.SetStatus(ctx, tableID, "Libre"); err != nil {
		log.Warn().Err(err).Str("table_id", tableID.String()).Msg("libération de table échouée")
	}
	if s.dispatcher != nil {
		receipt := worker.ReceiptJobPayload{SaleID: sale.ID.String(), CustomerEmail: req.CustomerEmail}
		if err := s.dispatcher.EnqueueReceipt(ctx, receipt); err != nil {
			log.Warn().Err(err).Msg("enqueue du ticket échoué")
		}
		if len(lowStockIDs) > 0 {
			alert := worker.LowStockJobPayload{IngredientIDs: lowStockIDs}
			if err := s.dispatcher.EnqueueLowStock(ctx, alert); err != nil {
				log.Warn().Err(err).Msg("enqueue de l'alerte stock échoué")
			}
		}
	}

	resp := saleToResponse(&sale)
	resp.StockWarnings = warnings
	for i, r := range resolved {
		resp.Items[i].Dish = r.name
	}
	return resp, nil
}

// ── VoidSale ─────────────────────────────────────────────────────────────────
// Restocking uses the dish compositions as they stand now; the original
// movements are never edited, inverse ledger entries are appended instead.

func (s *orderService) VoidSale(ctx context.Context, id uuid.UUID, reason string) error {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return errors.New("vente introuvable")
	}
	if sale.Status == "annulée" {
		return errors.New("la vente est déjà annulée")
	}

	snap, err := s.graph.LoadSnapshot(ctx)
	if err != nil {
		return err
	}
	needs := make(map[uuid.UUID]float64)
	for _, item := range sale.Items {
		for ingID, qty := range costing.ExpandIngredientUsage(snap, model.KindDish, item.DishID, float64(item.Quantity)) {
			needs[ingID] += qty
		}
	}
	ingredientIDs := make([]uuid.UUID, 0, len(needs))
	for ingID := range needs {
		ingredientIDs = append(ingredientIDs, ingID)
	}
	sort.Slice(ingredientIDs, func(i, j int) bool { return ingredientIDs[i].String() < ingredientIDs[j].String() })

	return runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		for _, ingID := range ingredientIDs {
			ing, err := s.ingredients.FindByIDTx(tx, ingID)
			if err != nil {
				// Ingredient removed since the sale: nothing to restock.
				log.Warn().Str("ingredient_id", ingID.String()).Msg("restock impossible, ingrédient disparu")
				continue
			}
			restock := needs[ingID] * costing.Convert(ing.BaseUnit, ing.PurchaseUnit, ing)
			before := ing.StockQuantity
			after := before + restock
			if err := s.ingredients.SetStockTx(tx, ingID, after); err != nil {
				return err
			}
			ref := sale.ID
			mov := &model.StockMovement{
				IngredientID: ingID,
				Type:         "annulation",
				Quantity:     restock,
				StockBefore:  before,
				StockAfter:   after,
				Reason:       fmt.Sprintf("Annulation vente #%d — %s", sale.TicketNumber, reason),
				ReferenceID:  &ref,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return s.sales.UpdateStatusTx(tx, id, "annulée")
	})
}

func (s *orderService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("vente introuvable")
	}
	return saleToResponse(sale), nil
}

func (s *orderService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status == "" {
		filter.Status = "complétée"
	}
	sales, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(v *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		name := ""
		if item.Dish != nil {
			name = item.Dish.Name
		}
		items = append(items, dto.SaleItemResponse{
			Dish:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:           v.ID.String(),
		TicketNumber: v.TicketNumber,
		TableID:      v.TableID.String(),
		Items:        items,
		Total:        v.Total,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
