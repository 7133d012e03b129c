package worker

// digest_cron.go
// Background goroutine that mails a daily activity digest: yesterday's sales
// totals plus the current low-stock list. A Redis SetNX guard keyed by date
// keeps multiple replicas from sending the same digest twice.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"brigade/internal/dto"
	"brigade/internal/infra"
	"brigade/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	digestTickInterval = 10 * time.Minute
	digestHour         = 6 // local time
)

// DigestCronConfig holds all dependencies for the digest goroutine.
type DigestCronConfig struct {
	SaleRepo       repository.SaleRepository
	IngredientRepo repository.IngredientRepository
	Mailer         *infra.Mailer
	RDB            *redis.Client
	AlertEmail     string
}

// StartDigestCron launches a background goroutine that ticks every 10
// minutes and sends the digest once per day after digestHour.
// It respects the context for graceful shutdown.
func StartDigestCron(ctx context.Context, cfg DigestCronConfig) {
	if cfg.AlertEmail == "" {
		log.Info().Msg("digest_cron: no alert email configured, not starting")
		return
	}
	go func() {
		ticker := time.NewTicker(digestTickInterval)
		defer ticker.Stop()

		log.Info().Msg("digest_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("digest_cron: shutting down")
				return
			case <-ticker.C:
				maybeSendDigest(ctx, cfg)
			}
		}
	}()
}

func maybeSendDigest(ctx context.Context, cfg DigestCronConfig) {
	now := time.Now()
	if now.Hour() < digestHour {
		return
	}

	// Once per day across all replicas.
	key := "digest:sent:" + now.Format("2006-01-02")
	sent, err := cfg.RDB.SetNX(ctx, key, 1, 48*time.Hour).Result()
	if err != nil || !sent {
		return
	}

	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	sales, total, err := cfg.SaleRepo.List(ctx, dto.SaleFilter{
		Date:   yesterday,
		Status: "complétée",
		Page:   1,
		Limit:  200,
	})
	if err != nil {
		log.Error().Err(err).Msg("digest_cron: failed to load sales")
		return
	}

	revenue := decimal.Zero
	for _, s := range sales {
		revenue = revenue.Add(s.Total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Synthèse du %s\n\n", yesterday)
	fmt.Fprintf(&b, "Ventes : %d ticket(s)\n", total)
	fmt.Fprintf(&b, "Chiffre d'affaires TTC : %s DZD\n\n", revenue.StringFixed(2))

	low, err := cfg.IngredientRepo.ListBelowThreshold(ctx)
	if err == nil && len(low) > 0 {
		fmt.Fprintf(&b, "Stocks sous le seuil (%d) :\n", len(low))
		for _, ing := range low {
			fmt.Fprintf(&b, "- %s : %.2f %s (seuil %.2f)\n",
				ing.Name, ing.StockQuantity, ing.PurchaseUnit, ing.LowStockThreshold)
		}
	}

	subject := "Synthèse quotidienne — " + yesterday
	if err := cfg.Mailer.Send(cfg.AlertEmail, subject, b.String(), ""); err != nil {
		log.Error().Err(err).Msg("digest_cron: digest email failed")
		return
	}
	log.Info().Str("date", yesterday).Msg("digest_cron: digest sent")
}
