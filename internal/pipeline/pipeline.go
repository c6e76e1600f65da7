// Package pipeline batches lookup events and hands them to a loader in the
// background, so tool calls never wait on the event stream.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-mcp-server/internal/domain"
	"github.com/couchcryptid/weather-mcp-server/internal/observability"
)

const (
	// queueBatches sizes the publish queue as a multiple of the batch size.
	queueBatches = 10

	initialBackoff  = 200 * time.Millisecond
	maxBackoff      = 5 * time.Second
	maxLoadAttempts = 5

	// drainTimeout bounds the final flush after Run's context is cancelled.
	drainTimeout = 5 * time.Second
)

// BatchLoader writes multiple lookup events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.LookupEvent) error
}

// Publisher queues lookup events and loads them in batches, either when a
// batch fills or when the flush interval elapses.
type Publisher struct {
	loader        BatchLoader
	queue         chan domain.LookupEvent
	logger        *slog.Logger
	metrics       *observability.Metrics
	clock         clockwork.Clock
	ready         atomic.Bool
	batchSize     int
	flushInterval time.Duration
}

// NewPublisher creates a Publisher. A nil clock uses the real clock.
func NewPublisher(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration, clock clockwork.Clock) *Publisher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Publisher{
		loader:        l,
		queue:         make(chan domain.LookupEvent, batchSize*queueBatches),
		logger:        logger,
		metrics:       metrics,
		clock:         clock,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Publish enqueues ev without blocking. When the queue is full the event is
// dropped and counted.
func (p *Publisher) Publish(ev domain.LookupEvent) {
	select {
	case p.queue <- ev:
	default:
		p.metrics.LookupEventsDropped.Inc()
		p.logger.Debug("lookup event queue full, dropping event", "tool", ev.Tool, "outcome", ev.Outcome)
	}
}

// CheckReadiness returns nil while Run is active.
func (p *Publisher) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("lookup event publisher is not running")
	}
	return nil
}

// Run drains the queue until the context is cancelled, then flushes what is
// left within drainTimeout.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("publisher started", "batch_size", p.batchSize, "flush_interval", p.flushInterval)
	p.metrics.PublisherRunning.Set(1)
	p.ready.Store(true)
	defer func() {
		p.ready.Store(false)
		p.metrics.PublisherRunning.Set(0)
	}()

	ticker := p.clock.NewTicker(p.flushInterval)
	defer ticker.Stop()

	batch := make([]domain.LookupEvent, 0, p.batchSize)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("publisher stopping", "reason", ctx.Err())
			p.drain(ctx, batch)
			return nil

		case ev := <-p.queue:
			batch = append(batch, ev)
			if len(batch) >= p.batchSize {
				p.flush(ctx, batch)
				batch = make([]domain.LookupEvent, 0, p.batchSize)
			}

		case <-ticker.Chan():
			if len(batch) > 0 {
				p.flush(ctx, batch)
				batch = make([]domain.LookupEvent, 0, p.batchSize)
			}
		}
	}
}

// drain loads the pending batch plus anything still queued.
func (p *Publisher) drain(ctx context.Context, batch []domain.LookupEvent) {
	for len(p.queue) > 0 {
		batch = append(batch, <-p.queue)
	}
	if len(batch) == 0 {
		return
	}

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()
	p.flush(drainCtx, batch)
}

// flush loads one batch, backing off between failed attempts. A batch that
// still fails after maxLoadAttempts is dropped.
func (p *Publisher) flush(ctx context.Context, batch []domain.LookupEvent) {
	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			p.metrics.LookupEventsPublished.Add(float64(len(batch)))
			p.metrics.LookupBatchSize.Observe(float64(len(batch)))
			return
		}

		p.logger.Error("load batch failed", "error", err, "batch_size", len(batch), "attempt", attempt)
		if attempt == maxLoadAttempts || !retry.SleepWithContext(ctx, backoff) {
			p.metrics.LookupEventsDropped.Add(float64(len(batch)))
			p.logger.Warn("dropping lookup event batch", "batch_size", len(batch), "attempts", attempt)
			return
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}
