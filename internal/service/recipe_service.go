package service

import (
	"context"
	"errors"
	"math"

	"brigade/internal/costing"
	"brigade/internal/dto"
	"brigade/internal/infra"
	"brigade/internal/model"
	"brigade/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RecipeService manages dishes, preparations and their composition graph,
// and produces costed views of both.
type RecipeService interface {
	CreateDish(ctx context.Context, req dto.CreateDishRequest) (*dto.DishResponse, error)
	GetDish(ctx context.Context, id uuid.UUID) (*dto.DishResponse, error)
	ListDishes(ctx context.Context, filter dto.RecipeFilter) (*dto.DishListResponse, error)
	UpdateDish(ctx context.Context, id uuid.UUID, req dto.UpdateDishRequest) (*dto.DishResponse, error)
	DeleteDish(ctx context.Context, id uuid.UUID) error

	CreatePreparation(ctx context.Context, req dto.CreatePreparationRequest) (*dto.PreparationResponse, error)
	GetPreparation(ctx context.Context, id uuid.UUID) (*dto.PreparationResponse, error)
	ListPreparations(ctx context.Context, filter dto.RecipeFilter) (*dto.PreparationListResponse, error)
	UpdatePreparation(ctx context.Context, id uuid.UUID, req dto.UpdatePreparationRequest) (*dto.PreparationResponse, error)
	DeletePreparation(ctx context.Context, id uuid.UUID) error

	SetComposition(ctx context.Context, kind model.ParentKind, parentID uuid.UUID, req dto.SetCompositionRequest) error
	Cost(ctx context.Context, kind model.ParentKind, id uuid.UUID) (*dto.RecipeCostResponse, error)
	SheetPDF(ctx context.Context, dishID uuid.UUID) (string, error)
}

type recipeService struct {
	dishes         repository.DishRepository
	preparations   repository.PreparationRepository
	graph          repository.GraphRepository
	rdb            *redis.Client
	pdfStoragePath string
	defaultTVARate float64
}

func NewRecipeService(
	dishes repository.DishRepository,
	preparations repository.PreparationRepository,
	graph repository.GraphRepository,
	rdb *redis.Client,
	pdfStoragePath string,
	defaultTVARate float64,
) RecipeService {
	if defaultTVARate <= 0 {
		defaultTVARate = 10
	}
	return &recipeService{
		dishes:         dishes,
		preparations:   preparations,
		graph:          graph,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
		defaultTVARate: defaultTVARate,
	}
}

// ── Dishes ───────────────────────────────────────────────────────────────────

func (s *recipeService) CreateDish(ctx context.Context, req dto.CreateDishRequest) (*dto.DishResponse, error) {
	d := &model.Dish{
		RecipeCore: model.RecipeCore{
			Name:               req.Name,
			Category:           req.Category,
			ProductionQuantity: req.ProductionQuantity,
			ProductionUnit:     req.ProductionUnit,
			Portions:           int(req.Portions),
			Procedure:          req.Procedure,
		},
		Price:              req.Price,
		TVARate:            req.TVARate,
		Status:             req.Status,
		CommercialArgument: req.CommercialArgument,
		ImageURL:           req.ImageURL,
	}
	if d.Portions < 1 {
		d.Portions = 1
	}
	if d.ProductionQuantity <= 0 {
		d.ProductionQuantity = 1
	}
	if d.TVARate <= 0 {
		d.TVARate = s.defaultTVARate
	}
	if d.Status == "" {
		d.Status = "Actif"
	}
	if err := s.dishes.Create(ctx, d); err != nil {
		return nil, err
	}
	bumpCatalogVersion(ctx, s.rdb)
	resp := dishToResponse(d)
	return &resp, nil
}

func (s *recipeService) GetDish(ctx context.Context, id uuid.UUID) (*dto.DishResponse, error) {
	d, err := s.dishes.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("plat introuvable")
	}
	resp := dishToResponse(d)
	return &resp, nil
}

func (s *recipeService) ListDishes(ctx context.Context, filter dto.RecipeFilter) (*dto.DishListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	dishes, total, err := s.dishes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.DishResponse, len(dishes))
	for i := range dishes {
		data[i] = dishToResponse(&dishes[i])
	}
	return &dto.DishListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *recipeService) UpdateDish(ctx context.Context, id uuid.UUID, req dto.UpdateDishRequest) (*dto.DishResponse, error) {
	d, err := s.dishes.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("plat introuvable")
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Category != nil {
		d.Category = *req.Category
	}
	if req.Price != nil {
		d.Price = *req.Price
	}
	if req.TVARate != nil {
		d.TVARate = *req.TVARate
	}
	if req.Status != nil {
		d.Status = *req.Status
	}
	if req.Portions != nil && *req.Portions >= 1 {
		d.Portions = int(*req.Portions)
	}
	if req.ProductionQuantity != nil && *req.ProductionQuantity > 0 {
		d.ProductionQuantity = *req.ProductionQuantity
	}
	if req.ProductionUnit != nil {
		d.ProductionUnit = *req.ProductionUnit
	}
	if req.Procedure != nil {
		d.Procedure = *req.Procedure
	}
	if req.CommercialArgument != nil {
		d.CommercialArgument = *req.CommercialArgument
	}
	if req.ImageURL != nil {
		d.ImageURL = *req.ImageURL
	}
	if err := s.dishes.Update(ctx, d); err != nil {
		return nil, err
	}
	bumpCatalogVersion(ctx, s.rdb)
	resp := dishToResponse(d)
	return &resp, nil
}

func (s *recipeService) DeleteDish(ctx context.Context, id uuid.UUID) error {
	if _, err := s.dishes.FindByID(ctx, id); err != nil {
		return errors.New("plat introuvable")
	}
	if err := s.graph.ReplaceComposition(ctx, model.KindDish, id, nil, nil); err != nil {
		return err
	}
	if err := s.dishes.Delete(ctx, id); err != nil {
		return err
	}
	bumpCatalogVersion(ctx, s.rdb)
	return nil
}

// ── Preparations ─────────────────────────────────────────────────────────────

func (s *recipeService) CreatePreparation(ctx context.Context, req dto.CreatePreparationRequest) (*dto.PreparationResponse, error) {
	p := &model.Preparation{
		RecipeCore: model.RecipeCore{
			Name:               req.Name,
			Category:           req.Category,
			ProductionQuantity: req.ProductionQuantity,
			ProductionUnit:     req.ProductionUnit,
			Portions:           int(req.Portions),
			Procedure:          req.Procedure,
		},
		UsageUnit:    req.UsageUnit,
		Equivalences: req.Equivalences,
	}
	if p.ProductionQuantity <= 0 {
		p.ProductionQuantity = 1
	}
	if p.Portions < 1 {
		p.Portions = 1
	}
	if err := s.preparations.Create(ctx, p); err != nil {
		return nil, err
	}
	bumpCatalogVersion(ctx, s.rdb)
	resp := preparationToResponse(p, 0)
	return &resp, nil
}

func (s *recipeService) GetPreparation(ctx context.Context, id uuid.UUID) (*dto.PreparationResponse, error) {
	p, err := s.preparations.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("préparation introuvable")
	}
	snap, err := s.graph.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	resolved := costing.ResolvePreparationCosts(snap)
	resp := preparationToResponse(p, resolved[p.ID])
	return &resp, nil
}

func (s *recipeService) ListPreparations(ctx context.Context, filter dto.RecipeFilter) (*dto.PreparationListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	preps, total, err := s.preparations.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	snap, err := s.graph.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	resolved := costing.ResolvePreparationCosts(snap)

	data := make([]dto.PreparationResponse, len(preps))
	for i := range preps {
		data[i] = preparationToResponse(&preps[i], resolved[preps[i].ID])
	}
	return &dto.PreparationListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *recipeService) UpdatePreparation(ctx context.Context, id uuid.UUID, req dto.UpdatePreparationRequest) (*dto.PreparationResponse, error) {
	p, err := s.preparations.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("préparation introuvable")
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.ProductionQuantity != nil && *req.ProductionQuantity > 0 {
		p.ProductionQuantity = *req.ProductionQuantity
	}
	if req.ProductionUnit != nil {
		p.ProductionUnit = *req.ProductionUnit
	}
	if req.UsageUnit != nil {
		p.UsageUnit = *req.UsageUnit
	}
	if req.Portions != nil && *req.Portions >= 1 {
		p.Portions = int(*req.Portions)
	}
	if req.Procedure != nil {
		p.Procedure = *req.Procedure
	}
	if req.Equivalences != nil {
		p.Equivalences = req.Equivalences
	}
	if err := s.preparations.Update(ctx, p); err != nil {
		return nil, err
	}
	bumpCatalogVersion(ctx, s.rdb)
	resp := preparationToResponse(p, 0)
	return &resp, nil
}

func (s *recipeService) DeletePreparation(ctx context.Context, id uuid.UUID) error {
	if _, err := s.preparations.FindByID(ctx, id); err != nil {
		return errors.New("préparation introuvable")
	}
	if err := s.graph.ReplaceComposition(ctx, model.KindPreparation, id, nil, nil); err != nil {
		return err
	}
	if err := s.preparations.Delete(ctx, id); err != nil {
		return err
	}
	bumpCatalogVersion(ctx, s.rdb)
	return nil
}

// ── Composition ──────────────────────────────────────────────────────────────

func (s *recipeService) SetComposition(ctx context.Context, kind model.ParentKind, parentID uuid.UUID, req dto.SetCompositionRequest) error {
	switch kind {
	case model.KindDish:
		if _, err := s.dishes.FindByID(ctx, parentID); err != nil {
			return errors.New("plat introuvable")
		}
	case model.KindPreparation:
		if _, err := s.preparations.FindByID(ctx, parentID); err != nil {
			return errors.New("préparation introuvable")
		}
	default:
		return errors.New("type de parent inconnu")
	}

	ingredients := make([]model.RecipeIngredient, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		ingID, err := uuid.Parse(line.IngredientID)
		if err != nil {
			return errors.New("ingredient_id invalide")
		}
		ingredients = append(ingredients, model.RecipeIngredient{
			IngredientID: ingID,
			Quantity:     line.Quantity,
			UnitUse:      line.Unit,
		})
	}
	preparations := make([]model.RecipePreparation, 0, len(req.Preparations))
	for _, line := range req.Preparations {
		childID, err := uuid.Parse(line.PreparationID)
		if err != nil {
			return errors.New("preparation_id invalide")
		}
		// A preparation cannot reference itself.
		if kind == model.KindPreparation && childID == parentID {
			return errors.New("une préparation ne peut pas se contenir elle-même")
		}
		preparations = append(preparations, model.RecipePreparation{
			ChildID:  childID,
			Quantity: line.Quantity,
			UnitUse:  line.Unit,
		})
	}

	if err := s.graph.ReplaceComposition(ctx, kind, parentID, ingredients, preparations); err != nil {
		return err
	}
	bumpCatalogVersion(ctx, s.rdb)
	return nil
}

// ── Costing ──────────────────────────────────────────────────────────────────

func (s *recipeService) Cost(ctx context.Context, kind model.ParentKind, id uuid.UUID) (*dto.RecipeCostResponse, error) {
	snap, err := s.graph.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	resolved := costing.ResolvePreparationCosts(snap)

	resp := &dto.RecipeCostResponse{ID: id.String(), Kind: string(kind)}
	resp.Ingredients, resp.Preparations = compositionLines(snap, kind, id, resolved)

	switch kind {
	case model.KindDish:
		dish, err := s.dishes.FindByID(ctx, id)
		if err != nil {
			return nil, errors.New("plat introuvable")
		}
		cost := costing.AggregateDish(snap, dish, resolved)
		resp.Name = dish.Name
		resp.TotalCost = cost.TotalCost
		resp.CostPerPortion = cost.CostPerPortion
		resp.PriceHT = cost.PriceHT
		resp.GrossMargin = cost.GrossMargin
		resp.GrossMarginPct = cost.GrossMarginPct
		resp.FoodCostPct = cost.FoodCostPct
		resp.Multiplier = cost.Multiplier
	case model.KindPreparation:
		prep, err := s.preparations.FindByID(ctx, id)
		if err != nil {
			return nil, errors.New("préparation introuvable")
		}
		resp.Name = prep.Name
		resp.CostPerBatchUnit = resolved[id]
		prodQty := prep.ProductionQuantity
		if prodQty <= 0 {
			prodQty = 1
		}
		resp.TotalCost = resolved[id] * prodQty
		portions := float64(prep.Portions)
		if portions < 1 {
			portions = 1
		}
		resp.CostPerPortion = resp.TotalCost / portions
	default:
		return nil, errors.New("type de parent inconnu")
	}
	return resp, nil
}

// compositionLines builds the per-line cost breakdown of a parent.
func compositionLines(snap *costing.Snapshot, kind model.ParentKind, id uuid.UUID, resolved map[uuid.UUID]float64) ([]dto.IngredientLineResponse, []dto.PreparationLineResponse) {
	ingLines := make([]dto.IngredientLineResponse, 0)
	for _, l := range snap.IngredientLinksOf(kind, id) {
		name := l.IngredientID.String()
		if ing := snap.Ingredients[l.IngredientID]; ing != nil {
			name = ing.Name
		}
		ingLines = append(ingLines, dto.IngredientLineResponse{
			IngredientID: l.IngredientID.String(),
			Name:         name,
			Quantity:     l.Quantity,
			Unit:         l.UnitUse,
			Cost:         costing.IngredientCost(snap.Ingredients[l.IngredientID], l.Quantity, l.UnitUse),
		})
	}
	prepLines := make([]dto.PreparationLineResponse, 0)
	for _, l := range snap.PreparationLinksOf(kind, id) {
		name := l.ChildID.String()
		if p := snap.Preparations[l.ChildID]; p != nil {
			name = p.Name
		}
		prepLines = append(prepLines, dto.PreparationLineResponse{
			PreparationID: l.ChildID.String(),
			Name:          name,
			Quantity:      l.Quantity,
			Unit:          l.UnitUse,
			Cost:          costing.PreparationLinkCost(snap, l, resolved),
		})
	}
	return ingLines, prepLines
}

// SheetPDF generates the fiche technique of a dish and returns the file path.
func (s *recipeService) SheetPDF(ctx context.Context, dishID uuid.UUID) (string, error) {
	dish, err := s.dishes.FindByID(ctx, dishID)
	if err != nil {
		return "", errors.New("plat introuvable")
	}
	snap, err := s.graph.LoadSnapshot(ctx)
	if err != nil {
		return "", err
	}
	resolved := costing.ResolvePreparationCosts(snap)
	cost := costing.AggregateDish(snap, dish, resolved)

	ingLines, prepLines := compositionLines(snap, model.KindDish, dishID, resolved)
	lines := make([]infra.RecipeSheetLine, 0, len(ingLines)+len(prepLines))
	for _, l := range ingLines {
		lines = append(lines, infra.RecipeSheetLine{Name: l.Name, Quantity: l.Quantity, Unit: l.Unit, Cost: l.Cost})
	}
	for _, l := range prepLines {
		lines = append(lines, infra.RecipeSheetLine{Name: l.Name, Quantity: l.Quantity, Unit: l.Unit, Cost: l.Cost})
	}

	return infra.GenerateRecipeSheetPDF(dish, lines, cost, s.pdfStoragePath)
}

func dishToResponse(d *model.Dish) dto.DishResponse {
	return dto.DishResponse{
		ID:                 d.ID.String(),
		Name:               d.Name,
		Category:           d.Category,
		Price:              d.Price,
		TVARate:            d.TVARate,
		Status:             d.Status,
		Portions:           float64(d.Portions),
		ProductionQuantity: d.ProductionQuantity,
		ProductionUnit:     d.ProductionUnit,
		Procedure:          d.Procedure,
		CommercialArgument: d.CommercialArgument,
		ImageURL:           d.ImageURL,
	}
}

func preparationToResponse(p *model.Preparation, costPerUnit float64) dto.PreparationResponse {
	return dto.PreparationResponse{
		ID:                 p.ID.String(),
		Name:               p.Name,
		Category:           p.Category,
		ProductionQuantity: p.ProductionQuantity,
		ProductionUnit:     p.ProductionUnit,
		UsageUnit:          p.UsageUnit,
		Portions:           float64(p.Portions),
		Procedure:          p.Procedure,
		Equivalences:       p.Equivalences,
		CostPerUnit:        costPerUnit,
	}
}
