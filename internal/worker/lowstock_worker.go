package worker

// lowstock_worker.go
// Processes low-stock alert jobs from QueueLowStock. Jobs are enqueued after
// a stock deduction leaves ingredients at or below their threshold. Alerts
// are debounced per ingredient through a Redis key so a busy service does not
// flood the manager's inbox.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"brigade/internal/infra"
	"brigade/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lowStockDebounce = 4 * time.Hour

// LowStockJobPayload lists the ingredients that crossed their threshold.
type LowStockJobPayload struct {
	IngredientIDs []string `json:"ingredient_ids"`
}

type LowStockWorker struct {
	ingredientRepo repository.IngredientRepository
	mailer         *infra.Mailer
	rdb            *redis.Client
	alertEmail     string
}

func NewLowStockWorker(ingredientRepo repository.IngredientRepository, mailer *infra.Mailer, rdb *redis.Client, alertEmail string) *LowStockWorker {
	return &LowStockWorker{
		ingredientRepo: ingredientRepo,
		mailer:         mailer,
		rdb:            rdb,
		alertEmail:     alertEmail,
	}
}

func (w *LowStockWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload LowStockJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("lowstock_worker: invalid payload")
		return
	}
	if w.alertEmail == "" {
		log.Debug().Msg("lowstock_worker: no alert email configured, skipping")
		return
	}

	var lines []string
	for _, idStr := range payload.IngredientIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}

		// Debounce: one alert per ingredient per window.
		key := "alert:lowstock:" + idStr
		set, err := w.rdb.SetNX(ctx, key, 1, lowStockDebounce).Result()
		if err == nil && !set {
			continue
		}

		ing, err := w.ingredientRepo.FindByID(ctx, id)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s : %.2f %s restant (seuil %.2f)",
			ing.Name, ing.StockQuantity, ing.PurchaseUnit, ing.LowStockThreshold))
	}
	if len(lines) == 0 {
		return
	}

	subject := fmt.Sprintf("Alerte stock bas — %d ingrédient(s)", len(lines))
	body := "Les ingrédients suivants sont sous leur seuil d'alerte :\n\n" +
		strings.Join(lines, "\n") + "\n\nPensez à passer commande."

	if err := w.mailer.Send(w.alertEmail, subject, body, ""); err != nil {
		log.Error().Err(err).Msg("lowstock_worker: alert email failed")
		SendToDLQ(ctx, w.rdb, QueueLowStock, "lowstock", raw, err.Error(), 1)
		return
	}
	log.Info().Int("ingredients", len(lines)).Msg("lowstock_worker: alert sent")
}
