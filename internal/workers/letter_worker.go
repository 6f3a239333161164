package workers

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"donatello/backend/internal/common"
	"donatello/backend/internal/config"
	"donatello/backend/internal/logging"
	"donatello/backend/internal/metrics"
	"donatello/backend/internal/providers"
)

// LetterWorker consumes outbound letter jobs from the Redis stream and
// delivers them through the mailer. Delivery retries are paced by a rate
// limiter; a job that survives every attempt is acked and dropped, since
// the user can always request a resend.
type LetterWorker struct {
	queue    *common.LetterQueueService
	mailer   providers.Mailer
	cfg      config.OutboundConfig
	frontURL string
	metrics  *metrics.MetricsRegistry
	limiter  *rate.Limiter
}

func NewLetterWorker(
	queue *common.LetterQueueService,
	mailer providers.Mailer,
	cfg config.OutboundConfig,
	frontURL string,
	metricsReg *metrics.MetricsRegistry,
) *LetterWorker {
	return &LetterWorker{
		queue:    queue,
		mailer:   mailer,
		cfg:      cfg,
		frontURL: frontURL,
		metrics:  metricsReg,
		limiter:  rate.NewLimiter(rate.Every(cfg.RetryInterval), 1),
	}
}

// Run consumes jobs until the context is cancelled.
func (w *LetterWorker) Run(ctx context.Context, consumerName string) error {
	logging.Info("Letter worker started", "consumer", consumerName)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Letter worker stopping", "consumer", consumerName)
			return ctx.Err()
		default:
		}

		job, msgID, err := w.queue.Dequeue(ctx, consumerName, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Error("Failed to dequeue letter job", "consumer", consumerName, "error", err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		w.process(ctx, consumerName, job, msgID)
	}
}

// process delivers one job, retrying up to the configured attempt count with
// the limiter spacing attempts out.
func (w *LetterWorker) process(ctx context.Context, consumerName string, job *common.LetterJob, msgID string) {
	letter, err := providers.RenderLetter(job, w.frontURL)
	if err != nil {
		logging.Error("Dropping unrenderable letter job",
			"consumer", consumerName, "kind", job.Kind, "error", err)
		w.ack(ctx, msgID)
		w.metrics.LetterDropped()
		return
	}

	if err := w.deliver(ctx, letter); err != nil {
		logging.Error("Dropping letter after exhausting retries",
			"consumer", consumerName, "kind", job.Kind, "user_id", job.UserID,
			"attempts", w.cfg.RetryAttempts, "error", err)
		w.ack(ctx, msgID)
		w.metrics.LetterDropped()
		return
	}

	w.ack(ctx, msgID)
	w.metrics.LetterDispatched(string(job.Kind))
	logging.Info("Letter delivered",
		"consumer", consumerName, "kind", job.Kind, "user_id", job.UserID)
}

// deliver attempts the send up to the configured attempt count, pacing
// attempts through the limiter. Returns the last error when every attempt
// failed.
func (w *LetterWorker) deliver(ctx context.Context, letter *providers.Letter) error {
	var lastErr error
	for attempt := 1; attempt <= w.cfg.RetryAttempts; attempt++ {
		if err := w.limiter.Wait(ctx); err != nil {
			return err
		}
		if lastErr = w.mailer.Send(ctx, letter); lastErr == nil {
			return nil
		}
		logging.Warn("Letter delivery attempt failed",
			"attempt", attempt, "error", lastErr)
	}
	return lastErr
}

func (w *LetterWorker) ack(ctx context.Context, msgID string) {
	if err := w.queue.Ack(ctx, msgID); err != nil {
		logging.Warn("Failed to ack letter message", "message_id", msgID, "error", err)
	}
}

// MonitorQueue publishes the stream depth gauge until the context is
// cancelled.
func (w *LetterWorker) MonitorQueue(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			length, err := w.queue.QueueLength(ctx)
			if err != nil {
				logging.Warn("Failed to read letter queue length", "error", err)
				continue
			}
			w.metrics.SetLetterQueueLength(length)
		}
	}
}

func consumerName(i int) string {
	return fmt.Sprintf("letter-worker-%d", i)
}
