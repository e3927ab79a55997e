package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
	"github.com/lppm/portal-auth/internal/pkg/metrics"
)

const (
	defaultWorkers    = 2
	channelBuffer     = 256
	deleteTimeout     = 10 * time.Second
	defaultRetryDelay = 2 * time.Second
)

// Cleaner removes documents whose registration did not go through. Each
// document gets one delete attempt plus at most one retry; failures are
// logged and counted, never reported back to the caller.
type Cleaner struct {
	jobs       chan domain.DocumentRef
	store      ports.DocumentStore
	workers    int
	retryDelay time.Duration
	log        zerolog.Logger
	wg         sync.WaitGroup
}

// NewCleaner creates a Cleaner with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCleaner(numWorkers int, store ports.DocumentStore, log zerolog.Logger) *Cleaner {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &Cleaner{
		jobs:       make(chan domain.DocumentRef, channelBuffer),
		store:      store,
		workers:    numWorkers,
		retryDelay: defaultRetryDelay,
		log:        log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (c *Cleaner) Start(ctx context.Context) {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.runWorker(ctx, i)
	}
}

// Wait blocks until all workers have returned.
func (c *Cleaner) Wait() {
	c.wg.Wait()
}

// Discard queues ref for removal. When the queue is full the document is
// left behind and only logged.
func (c *Cleaner) Discard(ref domain.DocumentRef) {
	if ref == "" {
		return
	}
	select {
	case c.jobs <- ref:
		metrics.DocumentCleanupQueueDepth.Inc()
	default:
		metrics.DocumentCleanupTotal.WithLabelValues("dropped").Inc()
		c.log.Warn().Str("document", string(ref)).Msg("cleanup queue full, orphaned document left in store")
	}
}

func (c *Cleaner) runWorker(ctx context.Context, id int) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ref := <-c.jobs:
			metrics.DocumentCleanupQueueDepth.Dec()
			c.remove(ctx, id, ref)
		}
	}
}

func (c *Cleaner) remove(ctx context.Context, workerID int, ref domain.DocumentRef) {
	err := c.delete(ctx, ref)
	if err != nil {
		c.log.Warn().Err(err).Str("document", string(ref)).Int("worker_id", workerID).Msg("document delete failed, retrying once")

		select {
		case <-ctx.Done():
		case <-time.After(c.retryDelay):
			err = c.delete(ctx, ref)
		}
	}

	if err != nil {
		metrics.DocumentCleanupTotal.WithLabelValues("failed").Inc()
		c.log.Error().Err(err).Str("document", string(ref)).Int("worker_id", workerID).Msg("orphaned document could not be removed")
		return
	}
	metrics.DocumentCleanupTotal.WithLabelValues("deleted").Inc()
	c.log.Debug().Str("document", string(ref)).Msg("orphaned document removed")
}

// delete outlives worker shutdown so an in-flight removal is not cut short.
func (c *Cleaner) delete(ctx context.Context, ref domain.DocumentRef) error {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deleteTimeout)
	defer cancel()
	return c.store.Delete(dctx, ref)
}
