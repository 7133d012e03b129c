package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brigade/internal/costing"
	"brigade/internal/dto"
	"brigade/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const analysisCacheTTL = 15 * time.Minute

// AnalysisService produces the margin analysis of the active menu.
type AnalysisService interface {
	AnalyzeMenu(ctx context.Context) (*dto.MenuAnalysisResponse, error)
}

type analysisService struct {
	dishes repository.DishRepository
	graph  repository.GraphRepository
	rdb    *redis.Client
}

func NewAnalysisService(dishes repository.DishRepository, graph repository.GraphRepository, rdb *redis.Client) AnalysisService {
	return &analysisService{dishes: dishes, graph: graph, rdb: rdb}
}

// AnalyzeMenu walks every active dish through the costing engine. Results are
// cached in Redis under a key embedding the catalog version, so any catalog
// write implicitly invalidates the cache.
func (s *analysisService) AnalyzeMenu(ctx context.Context) (*dto.MenuAnalysisResponse, error) {
	version := catalogVersion(ctx, s.rdb)
	cacheKey := fmt.Sprintf("analysis:menu:v%d", version)

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached dto.MenuAnalysisResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				cached.Cached = true
				return &cached, nil
			}
		}
	}

	dishes, err := s.dishes.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.graph.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	resolved := costing.ResolvePreparationCosts(snap)

	resp := &dto.MenuAnalysisResponse{
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		CatalogVersion: version,
		Lines:          make([]dto.MenuAnalysisLine, 0, len(dishes)),
	}

	var marginSum, foodCostSum float64
	var priced int
	worstFoodCost := 0.0
	for i := range dishes {
		d := &dishes[i]
		cost := costing.AggregateDish(snap, d, resolved)
		resp.Lines = append(resp.Lines, dto.MenuAnalysisLine{
			DishID:         d.ID.String(),
			Name:           d.Name,
			Category:       d.Category,
			PriceTTC:       d.Price,
			PriceHT:        cost.PriceHT,
			CostPerPortion: cost.CostPerPortion,
			GrossMargin:    cost.GrossMargin,
			GrossMarginPct: cost.GrossMarginPct,
			FoodCostPct:    cost.FoodCostPct,
			Multiplier:     cost.Multiplier,
		})
		if cost.PriceHT > 0 {
			priced++
			marginSum += cost.GrossMarginPct
			foodCostSum += cost.FoodCostPct
			if cost.FoodCostPct > worstFoodCost {
				worstFoodCost = cost.FoodCostPct
				resp.WorstFoodCostDish = d.Name
			}
		}
	}
	if priced > 0 {
		resp.AverageMarginPct = marginSum / float64(priced)
		resp.AverageFoodCost = foodCostSum / float64(priced)
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, analysisCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("analysis: cache write failed")
			}
		}
	}
	return resp, nil
}
