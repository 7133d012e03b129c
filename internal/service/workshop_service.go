package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"brigade/internal/costing"
	"brigade/internal/dto"
	"brigade/internal/infra"
	"brigade/internal/model"
	"brigade/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrWorkshopUnavailable is returned when no LLM client is configured or the
// circuit breaker is open.
var ErrWorkshopUnavailable = errors.New("l'atelier de création est momentanément indisponible")

// WorkshopService drafts recipe concepts with an LLM and imports them into
// the catalog as dish drafts.
type WorkshopService interface {
	GenerateConcept(ctx context.Context, req dto.RecipeConceptRequest) (*dto.RecipeConceptResponse, error)
	ImportConcept(ctx context.Context, req dto.ImportConceptRequest) (*dto.ImportConceptResponse, error)
}

type workshopService struct {
	llm            *infra.RecipeModel
	cb             *infra.CircuitBreaker
	ingredients    repository.IngredientRepository
	dishes         repository.DishRepository
	graph          repository.GraphRepository
	rdb            *redis.Client
	defaultTVARate float64
}

func NewWorkshopService(
	llm *infra.RecipeModel,
	cb *infra.CircuitBreaker,
	ingredients repository.IngredientRepository,
	dishes repository.DishRepository,
	graph repository.GraphRepository,
	rdb *redis.Client,
	defaultTVARate float64,
) WorkshopService {
	if defaultTVARate <= 0 {
		defaultTVARate = 10
	}
	return &workshopService{
		llm:            llm,
		cb:             cb,
		ingredients:    ingredients,
		dishes:         dishes,
		graph:          graph,
		rdb:            rdb,
		defaultTVARate: defaultTVARate,
	}
}

const conceptSystemPrompt = `Tu es un chef de cuisine français. Tu proposes des concepts de recettes
pour un restaurant. Réponds UNIQUEMENT avec un objet JSON respectant ce schéma :
{
  "name": string,
  "category": string,
  "portions": number,
  "ingredients": [{"name": string, "quantity": number, "unit": string}],
  "procedure": string,
  "commercial_argument": string,
  "suggested_price": number
}
Les unités autorisées sont : g, kg, ml, cl, l, pièce. Les quantités sont pour le nombre de portions indiqué.`

func (s *workshopService) GenerateConcept(ctx context.Context, req dto.RecipeConceptRequest) (*dto.RecipeConceptResponse, error) {
	if s.llm == nil {
		return nil, ErrWorkshopUnavailable
	}

	var userPrompt strings.Builder
	fmt.Fprintf(&userPrompt, "Thème : %s\n", req.Theme)
	if req.Category != "" {
		fmt.Fprintf(&userPrompt, "Catégorie : %s\n", req.Category)
	}
	if len(req.Constraints) > 0 {
		fmt.Fprintf(&userPrompt, "Contraintes : %s\n", strings.Join(req.Constraints, ", "))
	}

	var rawOut string
	cbErr := s.cb.Execute(func() error {
		out, err := s.llm.Complete(ctx, conceptSystemPrompt, userPrompt.String())
		if err != nil {
			return err
		}
		rawOut = out
		return nil
	})
	if cbErr != nil {
		if errors.Is(cbErr, infra.ErrCircuitOpen) {
			return nil, ErrWorkshopUnavailable
		}
		return nil, fmt.Errorf("génération du concept: %w", cbErr)
	}

	var concept dto.RecipeConcept
	if err := json.Unmarshal([]byte(rawOut), &concept); err != nil {
		log.Error().Err(err).Str("raw", rawOut).Msg("workshop: réponse JSON invalide")
		return nil, errors.New("le modèle a renvoyé une réponse illisible")
	}
	if concept.Name == "" || len(concept.Ingredients) == 0 {
		return nil, errors.New("le concept généré est incomplet")
	}

	resp := &dto.RecipeConceptResponse{Concept: concept, Matched: map[string]string{}}
	names := make([]string, 0, len(concept.Ingredients))
	for _, line := range concept.Ingredients {
		names = append(names, line.Name)
	}
	matched, err := s.ingredients.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*model.Ingredient, len(matched))
	for i := range matched {
		byName[strings.ToLower(matched[i].Name)] = &matched[i]
	}

	for _, line := range concept.Ingredients {
		ing, ok := byName[strings.ToLower(strings.TrimSpace(line.Name))]
		if !ok {
			resp.Unmatched = append(resp.Unmatched, line.Name)
			continue
		}
		resp.Matched[line.Name] = ing.ID.String()
		resp.EstimatedCost += costing.IngredientCost(ing, line.Quantity, line.Unit)
	}

	// Re-derive the price when a food-cost target is set and the estimate is
	// usable; the model's suggestion is only a fallback.
	if req.TargetFoodCostPct > 0 && resp.EstimatedCost > 0 && concept.Portions > 0 {
		costPerPortion := resp.EstimatedCost / concept.Portions
		resp.Concept.SuggestedPrice = costPerPortion / (req.TargetFoodCostPct / 100)
	}

	return resp, nil
}

// ImportConcept persists a concept as an inactive dish draft, linking every
// ingredient whose name matches the catalog. Unmatched names are reported so
// staff can create them before activation.
func (s *workshopService) ImportConcept(ctx context.Context, req dto.ImportConceptRequest) (*dto.ImportConceptResponse, error) {
	concept := req.Concept
	if concept.Name == "" {
		return nil, errors.New("concept sans nom")
	}
	status := req.Status
	if status == "" {
		status = "Inactif"
	}

	portions := int(concept.Portions)
	if portions < 1 {
		portions = 1
	}
	dish := &model.Dish{
		RecipeCore: model.RecipeCore{
			Name:               concept.Name,
			Category:           concept.Category,
			ProductionQuantity: 1,
			ProductionUnit:     "pièce",
			Portions:           portions,
			Procedure:          concept.Procedure,
		},
		Price:              concept.SuggestedPrice,
		TVARate:            s.defaultTVARate,
		Status:             status,
		CommercialArgument: concept.CommercialArgument,
	}
	if err := s.dishes.Create(ctx, dish); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(concept.Ingredients))
	for _, line := range concept.Ingredients {
		names = append(names, line.Name)
	}
	matched, err := s.ingredients.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*model.Ingredient, len(matched))
	for i := range matched {
		byName[strings.ToLower(matched[i].Name)] = &matched[i]
	}

	resp := &dto.ImportConceptResponse{DishID: dish.ID.String(), Name: dish.Name}
	var links []model.RecipeIngredient
	for _, line := range concept.Ingredients {
		ing, ok := byName[strings.ToLower(strings.TrimSpace(line.Name))]
		if !ok {
			resp.Unmatched = append(resp.Unmatched, line.Name)
			continue
		}
		links = append(links, model.RecipeIngredient{
			IngredientID: ing.ID,
			Quantity:     line.Quantity,
			UnitUse:      line.Unit,
		})
	}
	if err := s.graph.ReplaceComposition(ctx, model.KindDish, dish.ID, links, nil); err != nil {
		return nil, err
	}
	resp.Linked = len(links)
	bumpCatalogVersion(ctx, s.rdb)
	return resp, nil
}
