package workers

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"donatello/backend/internal/common"
	"donatello/backend/internal/config"
	"donatello/backend/internal/logging"
	"donatello/backend/internal/metrics"
	"donatello/backend/internal/providers"
)

// InitWorkers creates the consumer group and starts the letter consumers
// plus the queue depth monitor under one errgroup. The returned group
// finishes once the context is cancelled and every consumer has drained.
func InitWorkers(
	ctx context.Context,
	queue *common.LetterQueueService,
	mailer providers.Mailer,
	cfg config.OutboundConfig,
	frontURL string,
	metricsReg *metrics.MetricsRegistry,
	numConsumers int,
) (*errgroup.Group, error) {
	if err := queue.CreateConsumerGroup(ctx); err != nil {
		return nil, err
	}

	worker := NewLetterWorker(queue, mailer, cfg, frontURL, metricsReg)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numConsumers; i++ {
		name := consumerName(i)
		g.Go(func() error {
			err := worker.Run(gctx, name)
			if err != nil && err != context.Canceled {
				logging.Error("Letter consumer exited", "consumer", name, "error", err)
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		worker.MonitorQueue(gctx, 30*time.Second)
		return nil
	})

	return g, nil
}
