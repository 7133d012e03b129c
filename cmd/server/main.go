package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brigade/internal/config"
	"brigade/internal/infra"
	"brigade/internal/repository"
	"brigade/internal/router"
	"brigade/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// NewDatabase runs the migrations itself.
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// The workshop degrades to 503 when no API key is configured.
	llm, err := infra.NewRecipeModel(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		log.Warn().Err(err).Msg("recipe workshop disabled")
		llm = nil
	}
	llmCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	// Start goroutine worker pool for async tasks (ticket PDFs, stock alerts).
	// Worker handlers are wired here (composition root) so that the pool has
	// full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	saleRepo := repository.NewSaleRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)

	pool := worker.NewPool(rdb)
	pool.Register(worker.QueueReceipt, worker.NewReceiptWorker(saleRepo, mailer, rdb, cfg.PDFStoragePath))
	pool.Register(worker.QueueLowStock, worker.NewLowStockWorker(ingredientRepo, mailer, rdb, cfg.AlertEmail))
	pool.Start(ctx, cfg.WorkerPoolSize)

	worker.StartDigestCron(ctx, worker.DigestCronConfig{
		SaleRepo:       saleRepo,
		IngredientRepo: ingredientRepo,
		Mailer:         mailer,
		RDB:            rdb,
		AlertEmail:     cfg.AlertEmail,
	})

	r := router.New(cfg, db, rdb, llm, llmCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("brigade backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
