package service

import (
	"context"
	"errors"

	"brigade/internal/costing"
	"brigade/internal/dto"
	"brigade/internal/repository"

	"github.com/google/uuid"
)

// PlanService turns a sales forecast into aggregated production requirements.
type PlanService interface {
	BuildPlan(ctx context.Context, req dto.BuildPlanRequest) (*dto.BuildPlanResponse, error)
}

type planService struct {
	graph repository.GraphRepository
}

func NewPlanService(graph repository.GraphRepository) PlanService {
	return &planService{graph: graph}
}

func (s *planService) BuildPlan(ctx context.Context, req dto.BuildPlanRequest) (*dto.BuildPlanResponse, error) {
	forecast := make(map[uuid.UUID]float64, len(req.Forecast))
	for _, line := range req.Forecast {
		id, err := uuid.Parse(line.DishID)
		if err != nil {
			return nil, errors.New("dish_id invalide")
		}
		forecast[id] += line.Quantity
	}

	snap, err := s.graph.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	result := costing.BuildPlan(forecast, snap)

	resp := &dto.BuildPlanResponse{
		Ingredients:          make([]dto.PlanRequirementResponse, 0, len(result.RequiredIngredients)),
		Preparations:         make([]dto.PlanPreparationResponse, 0, len(result.RequiredPreparations)),
		TotalIngredientsCost: result.TotalIngredientsCost,
		Error:                result.Error,
	}

	for _, r := range result.RequiredIngredients {
		line := dto.PlanRequirementResponse{
			IngredientID: r.ID.String(),
			Name:         r.Name,
			Quantity:     r.Quantity,
			Unit:         r.Unit,
		}
		if ing := snap.Ingredients[r.ID]; ing != nil {
			line.Cost = costing.IngredientCost(ing, r.Quantity, r.Unit)
			// Stock compared in the requirement's display unit.
			inStock := ing.StockQuantity * costing.Convert(ing.PurchaseUnit, r.Unit, ing)
			line.InStock = inStock
			if shortfall := r.Quantity - inStock; shortfall > 0 {
				line.Shortfall = shortfall
			}
		}
		resp.Ingredients = append(resp.Ingredients, line)
	}

	for _, r := range result.RequiredPreparations {
		resp.Preparations = append(resp.Preparations, dto.PlanPreparationResponse{
			PreparationID: r.ID.String(),
			Name:          r.Name,
			Quantity:      r.Quantity,
			Unit:          r.Unit,
		})
	}
	return resp, nil
}
