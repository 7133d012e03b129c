package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: generates the PDF ticket of a
// committed sale and mails it when a customer email was captured.
// Email delivery retries with exponential backoff (max 3 attempts).

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brigade/internal/infra"
	"brigade/internal/model"
	"brigade/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxMailAttempts = 3

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID        string  `json:"sale_id"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

// ReceiptWorker turns committed sales into PDF tickets.
type ReceiptWorker struct {
	saleRepo       repository.SaleRepository
	mailer         *infra.Mailer
	rdb            *redis.Client
	pdfStoragePath string
}

func NewReceiptWorker(saleRepo repository.SaleRepository, mailer *infra.Mailer, rdb *redis.Client, pdfStoragePath string) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:       saleRepo,
		mailer:         mailer,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
	}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	sale, err := w.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	pdfPath, err := infra.GenerateTicketPDF(sale, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueReceipt, "receipt", raw, fmt.Sprintf("pdf generation: %v", err), 1)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generated")

	if payload.CustomerEmail == nil || *payload.CustomerEmail == "" {
		return
	}

	subject := fmt.Sprintf("Votre ticket — n° %d", sale.TicketNumber)
	body := receiptEmailBody(sale)

	mailErr := withRetry(ctx, maxMailAttempts, func(attempt int) error {
		if err := w.mailer.Send(*payload.CustomerEmail, subject, body, pdfPath); err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).
				Str("email", *payload.CustomerEmail).
				Msg("receipt_worker: send attempt failed, retrying")
			return err
		}
		return nil
	})
	if mailErr != nil {
		log.Error().Err(mailErr).Str("email", *payload.CustomerEmail).Msg("receipt_worker: email failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueReceipt, "receipt", raw,
			fmt.Sprintf("email after %d attempts: %v", maxMailAttempts, mailErr), maxMailAttempts)
		return
	}
	log.Info().Str("email", *payload.CustomerEmail).Msg("receipt_worker: ticket mailed")
}

// receiptEmailBody renders the plain-text body of a ticket email. Amounts are
// displayed in DZD, rounded to two decimals at presentation only.
func receiptEmailBody(sale *model.Sale) string {
	return fmt.Sprintf("Bonjour,\n\nVeuillez trouver ci-joint votre ticket de caisse.\nTotal : %s DZD\n\nMerci de votre visite.", sale.Total.StringFixed(2))
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
